package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

// entityCommand builds the list/show/add/edit/delete tree for one collection.
// Accessors are funcs because the app is wired in PersistentPreRunE.
type entityCommand[T domain.Record] struct {
	use     string
	aliases []string
	short   string
	example string

	specs     []domain.FieldSpec
	hasImages bool
	tagsFlag  string // empty when the kind owns no tag list
	tagsKey   string

	controller func() *services.FormController[T]
	search     func() *services.SearchService[T]
	render     func([]T) services.Display
}

var projectCommands = &entityCommand[domain.Project]{
	use:     "projects",
	aliases: []string{"project", "p"},
	short:   "List and edit portfolio projects",
	example: `  folio projects list
  folio projects add --title "Folio" --description "Portfolio admin" --tech Go --tech SQLite
  folio projects edit folio --image https://cdn.example.com/a.png --image https://cdn.example.com/b.png
  folio projects edit          # pick interactively, edit in $EDITOR
  folio projects delete 3`,
	specs:      services.ProjectForm{}.NewState().Specs,
	hasImages:  true,
	tagsFlag:   "tech",
	tagsKey:    "technologies",
	controller: func() *services.FormController[domain.Project] { return app.Projects },
	search:     func() *services.SearchService[domain.Project] { return app.ProjectSearch },
	render:     services.RenderProjects,
}

var experienceCommands = &entityCommand[domain.Experience]{
	use:     "experience",
	aliases: []string{"exp", "x"},
	short:   "List and edit work experience",
	example: `  folio experience list
  folio experience add --company Acme --role Engineer --date-range "2021 - 2024" \
      --responsibilities "Built things"
  folio experience edit acme -e`,
	specs:      services.ExperienceForm{}.NewState().Specs,
	controller: func() *services.FormController[domain.Experience] { return app.Experience },
	search:     func() *services.SearchService[domain.Experience] { return app.ExperienceSearch },
	render:     services.RenderExperience,
}

var skillCommands = &entityCommand[domain.Skill]{
	use:     "skills",
	aliases: []string{"skill", "s"},
	short:   "List and edit skills",
	example: `  folio skills list --table
  folio skills add --name Go --category Languages
  folio skills delete go`,
	specs:      services.SkillForm{}.NewState().Specs,
	controller: func() *services.FormController[domain.Skill] { return app.Skills },
	search:     func() *services.SearchService[domain.Skill] { return app.SkillSearch },
	render:     services.RenderSkills,
}

func init() {
	rootCmd.AddCommand(
		projectCommands.command(),
		experienceCommands.command(),
		skillCommands.command(),
	)
}

func (e *entityCommand[T]) command() *cobra.Command {
	parent := &cobra.Command{
		Use:     e.use,
		Aliases: e.aliases,
		Short:   e.short,
		Example: e.example,
	}
	parent.AddCommand(e.listCommand(), e.showCommand(), e.addCommand(), e.editCommand(), e.deleteCommand())
	return parent
}

func (e *entityCommand[T]) listCommand() *cobra.Command {
	var asJSON, asTable bool
	c := &cobra.Command{
		Use:     "list [query]",
		Aliases: []string{"ls"},
		Short:   "List " + e.use + ", optionally filtered by a fuzzy query",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := e.search().Execute(getContext(), services.SearchRequest{Query: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			switch {
			case asJSON:
				return printJSON(resp.Records)
			case asTable:
				fmt.Print(ui.RenderDisplayTable(e.render(resp.Records)))
			default:
				fmt.Print(ui.RenderDisplay(e.render(resp.Records)))
			}
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "Print the raw records as JSON")
	c.Flags().BoolVar(&asTable, "table", false, "Print a compact table")
	return c
}

func (e *entityCommand[T]) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [query]",
		Short: "Show one record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, ok, err := e.pick(args)
			if err != nil || !ok {
				return err
			}
			fmt.Print(ui.RenderDisplay(e.render([]T{record})))
			return nil
		},
	}
}

func (e *entityCommand[T]) addCommand() *cobra.Command {
	flags := newFieldFlags(e.specs, e.hasImages, e.tagsFlag, e.tagsKey)
	c := &cobra.Command{
		Use:     "add",
		Aliases: []string{"new", "create"},
		Short:   "Create a record from flags, a YAML file, or your editor",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			ctrl := e.controller()
			ctrl.OpenForCreate()
			if err := flags.apply(cmd, ctrl); err != nil {
				ctrl.Cancel()
				return err
			}
			return e.submit(ctrl, "Created")
		},
	}
	flags.register(c)
	return c
}

func (e *entityCommand[T]) editCommand() *cobra.Command {
	flags := newFieldFlags(e.specs, e.hasImages, e.tagsFlag, e.tagsKey)
	c := &cobra.Command{
		Use:   "edit [query]",
		Short: "Edit a record found by id or fuzzy query",
		Long: `Edit a record found by id or fuzzy query.
If no query is provided, shows an interactive list to select from.
Without field flags the record opens in your editor as YAML.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			record, ok, err := e.pick(args)
			if err != nil || !ok {
				return err
			}

			ctrl := e.controller()
			found, err := ctrl.OpenForEdit(getContext(), record.RecordID())
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s %d no longer exists", ctrl.Kind().Singular(), record.RecordID())
			}
			if err := flags.apply(cmd, ctrl); err != nil {
				ctrl.Cancel()
				return err
			}
			return e.submit(ctrl, "Updated")
		},
	}
	flags.register(c)
	return c
}

func (e *entityCommand[T]) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [query]",
		Aliases: []string{"rm"},
		Short:   "Delete a record after confirmation",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			record, ok, err := e.pick(args)
			if err != nil || !ok {
				return err
			}
			ctrl := e.controller()
			if err := ctrl.Delete(getContext(), record.RecordID(), confirmer()); err != nil {
				return err
			}
			fmt.Println(ui.FormatSuccess(fmt.Sprintf("Deleted %s #%d: %s", ctrl.Kind().Singular(), record.RecordID(), record.Label())))
			return nil
		},
	}
}

func (e *entityCommand[T]) submit(ctrl *services.FormController[T], verb string) error {
	saved, err := ctrl.Submit(getContext())
	if err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s %s #%d: %s", verb, ctrl.Kind().Singular(), saved.RecordID(), saved.Label())))
	return nil
}

// pick resolves args to one record, or asks with a fuzzy finder when args
// are empty. ok is false when the user aborted the finder.
func (e *entityCommand[T]) pick(args []string) (T, bool, error) {
	var zero T
	ctx := getContext()

	if len(args) > 0 {
		record, err := e.search().Resolve(ctx, args[0])
		if err != nil {
			return zero, false, err
		}
		return record, true, nil
	}

	resp, err := e.search().Execute(ctx, services.SearchRequest{})
	if err != nil {
		return zero, false, err
	}
	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No " + e.use + " found"))
		return zero, false, nil
	}
	if resp.Total == 1 {
		return resp.Records[0], true, nil
	}

	idx, err := fuzzyfinder.Find(
		resp.Records,
		func(i int) string {
			return fmt.Sprintf("#%d %s", resp.Records[i].RecordID(), resp.Records[i].Label())
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return plainPreview(e.render([]T{resp.Records[i]}))
		}),
	)
	if err != nil {
		// User cancelled (Ctrl+C or ESC)
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return zero, false, nil
	}
	return resp.Records[idx], true, nil
}

// plainPreview renders a display without styling for the finder preview
func plainPreview(d services.Display) string {
	if d.Empty() {
		return d.Placeholder
	}
	var b strings.Builder
	for _, group := range d.Groups {
		if group.Heading != "" {
			b.WriteString(group.Heading + "\n")
		}
		for _, item := range group.Items {
			b.WriteString(item.Title)
			if len(item.Badges) > 0 {
				b.WriteString(" [" + strings.Join(item.Badges, ", ") + "]")
			}
			b.WriteString("\n")
			for _, detail := range item.Details {
				b.WriteString("\n" + detail + "\n")
			}
			for _, link := range item.Links {
				b.WriteString(link + "\n")
			}
		}
	}
	return b.String()
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// fieldForm is the part of a form controller the field flags drive
type fieldForm interface {
	SetField(name, value string) error
	State() domain.FormState
}

type imageReplacer interface {
	ReplaceImages(urls []string) error
}

type tagReplacer interface {
	ReplaceTags(values []string) error
}

// fieldFlags exposes every field of a form as a command-line flag
type fieldFlags struct {
	specs     []domain.FieldSpec
	hasImages bool
	tagsFlag  string
	tagsKey   string

	values map[string]*string
	bools  map[string]*bool
	images []string
	tags   []string
	editor bool
	file   string
}

func newFieldFlags(specs []domain.FieldSpec, hasImages bool, tagsFlag, tagsKey string) *fieldFlags {
	return &fieldFlags{
		specs:     specs,
		hasImages: hasImages,
		tagsFlag:  tagsFlag,
		tagsKey:   tagsKey,
		values:    make(map[string]*string),
		bools:     make(map[string]*bool),
	}
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	for _, spec := range f.specs {
		name := flagName(spec.Name)
		usage := spec.Label
		if spec.Required {
			usage += " (required)"
		}
		if spec.Kind == domain.FieldBool {
			b := new(bool)
			cmd.Flags().BoolVar(b, name, false, usage)
			f.bools[spec.Name] = b
			continue
		}
		s := new(string)
		cmd.Flags().StringVar(s, name, "", usage)
		f.values[spec.Name] = s
	}
	if f.hasImages {
		cmd.Flags().StringArrayVar(&f.images, "image", nil, "Gallery image URL, repeat in display order (replaces the gallery)")
	}
	if f.tagsFlag != "" {
		cmd.Flags().StringSliceVar(&f.tags, f.tagsFlag, nil, "Comma separated or repeated entries (replaces the list)")
	}
	cmd.Flags().BoolVarP(&f.editor, "editor", "e", false, "Edit the form as YAML in your editor")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the form from a YAML file")
}

// apply copies changed flags, then --file, then the editor into the form.
// With no input at all the editor opens.
func (f *fieldFlags) apply(cmd *cobra.Command, form fieldForm) error {
	changed := false

	for _, spec := range f.specs {
		name := flagName(spec.Name)
		if !cmd.Flags().Changed(name) {
			continue
		}
		var value string
		if b, ok := f.bools[spec.Name]; ok {
			value = fmt.Sprint(*b)
		} else {
			value = *f.values[spec.Name]
		}
		if err := form.SetField(spec.Name, value); err != nil {
			return err
		}
		changed = true
	}

	if f.hasImages && cmd.Flags().Changed("image") {
		if err := replaceImages(form, f.images); err != nil {
			return err
		}
		changed = true
	}
	if f.tagsFlag != "" && cmd.Flags().Changed(f.tagsFlag) {
		if err := replaceTags(form, f.tags); err != nil {
			return err
		}
		changed = true
	}

	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return fmt.Errorf("failed to read form file: %w", err)
		}
		doc, err := decodeFormDocument(data, f.tagsKey)
		if err != nil {
			return err
		}
		if err := applyDocument(form, doc); err != nil {
			return err
		}
		changed = true
	}

	if f.editor || !changed {
		doc, err := editFormDocument(form.State(), f.tagsKey)
		if err != nil {
			return err
		}
		if err := applyDocument(form, doc); err != nil {
			return err
		}
	}
	return nil
}

func applyDocument(form fieldForm, doc *formDocument) error {
	for name, value := range doc.Fields {
		if err := form.SetField(name, value); err != nil {
			return err
		}
	}
	if doc.HasImages {
		if err := replaceImages(form, doc.Images); err != nil {
			return err
		}
	}
	if doc.HasTags {
		if err := replaceTags(form, doc.Tags); err != nil {
			return err
		}
	}
	return nil
}

func replaceImages(form fieldForm, urls []string) error {
	ed, ok := form.(imageReplacer)
	if !ok {
		return errors.New("this form has no image gallery")
	}
	return ed.ReplaceImages(urls)
}

func replaceTags(form fieldForm, values []string) error {
	ed, ok := form.(tagReplacer)
	if !ok {
		return errors.New("this form has no tag list")
	}
	return ed.ReplaceTags(values)
}
