package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports/mocks"
)

func TestAboutService_LoadEmpty(t *testing.T) {
	svc := NewAboutService(&mocks.MockAboutStore{})

	about, err := svc.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !about.IsEmpty() || svc.Field("bio") != "" {
		t.Errorf("empty about should leave the form blank: %+v", about)
	}
}

func TestAboutService_LoadAndSubmit(t *testing.T) {
	company := "Acme"
	store := &mocks.MockAboutStore{Current: domain.About{ID: 1, Bio: "Hello", CurrentCompany: &company}}
	svc := NewAboutService(store)

	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if svc.Field("bio") != "Hello" || svc.Field("current_company") != "Acme" {
		t.Errorf("form not populated: %v", svc.State().Values)
	}

	_ = svc.SetField("bio", "Updated bio")
	_ = svc.SetField("current_company", "")
	store.Current = domain.About{Bio: "Updated bio"}

	saved, err := svc.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if saved.Bio != "Updated bio" {
		t.Errorf("saved = %+v", saved)
	}

	payload := store.Payloads[0].(AboutPayload)
	if payload.Bio != "Updated bio" || payload.CurrentCompany != nil {
		t.Errorf("payload = %+v", payload)
	}
	if svc.State().Binding.Mode() != domain.ModeCreate {
		t.Error("about never enters edit mode")
	}
	if svc.Field("bio") != "Updated bio" {
		t.Error("form should show the saved content")
	}
}

func TestAboutService_SubmitAfterResetIsStale(t *testing.T) {
	store := &mocks.MockAboutStore{Current: domain.About{ID: 1, Bio: "Hello"}}
	svc := NewAboutService(store)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	_ = svc.SetField("bio", "Sent bio")
	store.BeforeSave = func() {
		svc.Reset()
		_ = svc.SetField("bio", "typed meanwhile")
	}

	saved, err := svc.Submit(context.Background())
	if !errors.Is(err, domain.ErrStaleResponse) {
		t.Fatalf("Submit() error = %v, want ErrStaleResponse", err)
	}
	if saved == nil || saved.Bio != "Hello" {
		t.Errorf("saved = %+v", saved)
	}
	if svc.Field("bio") != "typed meanwhile" {
		t.Errorf("late response overwrote the form: bio = %q", svc.Field("bio"))
	}
}

func TestAboutService_SubmitRequiresBio(t *testing.T) {
	store := &mocks.MockAboutStore{}
	svc := NewAboutService(store)

	_, err := svc.Submit(context.Background())
	if !domain.IsValidationError(err) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(store.Payloads) != 0 {
		t.Error("invalid about must not be sent")
	}
}

func TestAboutService_SubmitFailure(t *testing.T) {
	store := &mocks.MockAboutStore{SaveErr: &domain.HTTPError{Status: 500, Detail: "db down"}}
	svc := NewAboutService(store)
	_ = svc.SetField("bio", "Draft")

	if _, err := svc.Submit(context.Background()); domain.StatusOf(err) != 500 {
		t.Fatalf("error = %v", err)
	}
	if svc.Field("bio") != "Draft" || svc.Pending() {
		t.Error("failed submit must keep the draft and clear pending")
	}
}

func TestAboutService_LoadError(t *testing.T) {
	svc := NewAboutService(&mocks.MockAboutStore{LoadErr: errors.New("offline")})
	if _, err := svc.Load(context.Background()); err == nil {
		t.Error("expected error")
	}
}
