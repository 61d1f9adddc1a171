package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// Resource is one remote collection: a list path (public or admin) and an
// admin base path that takes POST, and PUT/DELETE on base/{id}
type Resource[T domain.Record] struct {
	gateway  ports.Gateway
	listPath string
	basePath string
}

// NewResource creates a collection adapter over gateway
func NewResource[T domain.Record](gateway ports.Gateway, listPath, basePath string) *Resource[T] {
	return &Resource[T]{
		gateway:  gateway,
		listPath: listPath,
		basePath: basePath,
	}
}

// Projects returns the project collection
func Projects(gw ports.Gateway) *Resource[domain.Project] {
	return NewResource[domain.Project](gw, "/api/projects", "/api/admin/projects")
}

// Experience returns the experience collection
func Experience(gw ports.Gateway) *Resource[domain.Experience] {
	return NewResource[domain.Experience](gw, "/api/experience", "/api/admin/experience")
}

// Skills returns the skill collection
func Skills(gw ports.Gateway) *Resource[domain.Skill] {
	return NewResource[domain.Skill](gw, "/api/skills", "/api/admin/skills")
}

// Contacts returns the contact submission collection (admin only, no create/update)
func Contacts(gw ports.Gateway) *Resource[domain.Contact] {
	return NewResource[domain.Contact](gw, "/api/admin/contacts", "/api/admin/contacts")
}

// List implements ports.Collection
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.gateway.Call(ctx, http.MethodGet, r.listPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create implements ports.Collection
func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	var out T
	err := r.gateway.Call(ctx, http.MethodPost, r.basePath, payload, &out)
	return out, err
}

// Update implements ports.Collection
func (r *Resource[T]) Update(ctx context.Context, id int, payload any) (T, error) {
	var out T
	err := r.gateway.Call(ctx, http.MethodPut, r.itemPath(id), payload, &out)
	return out, err
}

// Delete implements ports.Collection
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.gateway.Call(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

func (r *Resource[T]) itemPath(id int) string {
	return r.basePath + "/" + strconv.Itoa(id)
}

// String describes the resource (used in log lines)
func (r *Resource[T]) String() string {
	return fmt.Sprintf("resource(%s)", r.basePath)
}
