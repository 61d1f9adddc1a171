package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

var (
	contactsJSON bool

	contactName    string
	contactEmail   string
	contactSubject string
	contactMessage string
)

var contactsCmd = &cobra.Command{
	Use:     "contacts",
	Aliases: []string{"inbox"},
	Short:   "Read and delete contact form submissions",
}

var contactsListCmd = &cobra.Command{
	Use:     "list [query]",
	Aliases: []string{"ls"},
	Short:   "List received messages, newest first",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		resp, err := app.ContactSearch.Execute(getContext(), services.SearchRequest{Query: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		if contactsJSON {
			return printJSON(resp.Records)
		}
		fmt.Print(ui.RenderDisplay(services.RenderContacts(resp.Records)))
		return nil
	},
}

var contactsDeleteCmd = &cobra.Command{
	Use:     "delete <id|query>",
	Aliases: []string{"rm"},
	Short:   "Delete a received message",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		ctx := getContext()
		contact, err := app.ContactSearch.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		if err := app.Contacts.Delete(ctx, contact.ID, confirmer()); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Deleted message #%d from %s", contact.ID, contact.Label())))
		return nil
	},
}

var contactSendCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message through the public contact form",
	Long: `Send a message through the public contact form. Missing fields are
prompted for. Input is checked locally before anything is sent.

Examples:
  folio contact --name "Ada" --email ada@example.com --message "Hello there, nice site"`,
	Args: cobra.NoArgs,
	RunE: runContactSend,
}

func init() {
	contactsListCmd.Flags().BoolVar(&contactsJSON, "json", false, "Print the raw records as JSON")
	contactsCmd.AddCommand(contactsListCmd, contactsDeleteCmd)

	contactSendCmd.Flags().StringVar(&contactName, "name", "", "Your name")
	contactSendCmd.Flags().StringVar(&contactEmail, "email", "", "Your email address")
	contactSendCmd.Flags().StringVar(&contactSubject, "subject", "", "Subject (optional)")
	contactSendCmd.Flags().StringVar(&contactMessage, "message", "", "Message text")

	rootCmd.AddCommand(contactsCmd, contactSendCmd)
}

func runContactSend(_ *cobra.Command, _ []string) error {
	prompts := []struct {
		value  *string
		prompt string
	}{
		{&contactName, "Name: "},
		{&contactEmail, "Email: "},
		{&contactMessage, "Message: "},
	}
	for _, p := range prompts {
		if *p.value != "" {
			continue
		}
		line, err := readLine(stdin, rootCmd.OutOrStdout(), p.prompt)
		if err != nil {
			return err
		}
		*p.value = line
	}

	req := domain.ContactRequest{
		Name:    contactName,
		Email:   contactEmail,
		Subject: domain.StringPtr(contactSubject),
		Message: contactMessage,
	}
	resp, err := app.Contacts.Send(getContext(), req)
	if err != nil {
		return err
	}

	msg := "Message sent"
	if resp != nil && resp.Message != "" {
		msg = resp.Message
	}
	fmt.Println(ui.FormatSuccess(msg))
	return nil
}
