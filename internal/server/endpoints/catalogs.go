package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/folioview/folio/internal/api"
	"github.com/folioview/folio/internal/catalog"
	"github.com/folioview/folio/internal/svcctx"
)

// CatalogInput is the JSON payload for create and update operations.
// Fields are pointers so PATCH can distinguish "absent" from "zero".
type CatalogInput struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	Author       *string  `json:"author,omitempty"`
	Visibility   *string  `json:"visibility,omitempty"`
	Password     *string  `json:"password,omitempty"`
	SourceRef    *string  `json:"source_ref,omitempty"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty"`
}

// apply copies the provided fields onto the record.
func (in *CatalogInput) apply(rec *catalog.Record) {
	if in.Title != nil {
		rec.Title = *in.Title
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.Category != nil {
		rec.Category = *in.Category
	}
	if in.Keywords != nil {
		rec.Keywords = in.Keywords
	}
	if in.Author != nil {
		rec.Author = *in.Author
	}
	if in.Visibility != nil {
		rec.Visibility = catalog.Visibility(*in.Visibility)
	}
	if in.Password != nil {
		rec.Password = *in.Password
	}
	if in.SourceRef != nil {
		rec.SourceRef = *in.SourceRef
	}
	if in.ThumbnailURL != nil {
		rec.ThumbnailURL = *in.ThumbnailURL
	}
}

// decodeCatalogInput validates the raw body against the input schema and
// decodes it.
func decodeCatalogInput(r io.Reader) (*CatalogInput, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if err := catalog.ValidateInput(raw); err != nil {
		return nil, err
	}
	var in CatalogInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	return &in, nil
}

// ListCatalogsEndpoint handles GET /api/catalogs.
type ListCatalogsEndpoint struct{}

func (e *ListCatalogsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/catalogs", e.handler
}

func (e *ListCatalogsEndpoint) RequiresInit() bool { return true }

func (e *ListCatalogsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CatalogsFrom(r.Context())
	publicOnly := r.URL.Query().Get("public") == "true"
	writeJSON(w, http.StatusOK, store.List(publicOnly))
}

func (e *ListCatalogsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var publicOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/catalogs"
			if publicOnly {
				path += "?public=true"
			}
			var catalogs []catalog.Record
			if err := client.Get(cmd.Context(), path, &catalogs); err != nil {
				return err
			}
			return api.Output(catalogs)
		},
	}
	cmd.Flags().BoolVar(&publicOnly, "public", false, "Only list public catalogs")
	return cmd
}

// GetCatalogEndpoint handles GET /api/catalogs/{id}.
type GetCatalogEndpoint struct{}

func (e *GetCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/catalogs/{id}", e.handler
}

func (e *GetCatalogEndpoint) RequiresInit() bool { return true }

func (e *GetCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CatalogsFrom(r.Context())
	rec, err := store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "catalog not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (e *GetCatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var rec catalog.Record
			if err := client.Get(cmd.Context(), "/api/catalogs/"+args[0], &rec); err != nil {
				return err
			}
			return api.Output(rec)
		},
	}
}

// CreateCatalogEndpoint handles POST /api/catalogs.
type CreateCatalogEndpoint struct{}

func (e *CreateCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/catalogs", e.handler
}

func (e *CreateCatalogEndpoint) RequiresInit() bool { return true }

func (e *CreateCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCatalogInput(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Title == nil || *in.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	rec := catalog.Record{Visibility: catalog.VisibilityPublic}
	in.apply(&rec)

	store := svcctx.CatalogsFrom(r.Context())
	created, err := store.Create(rec)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (e *CreateCatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	var title, description, category, author, visibility, password, sourceRef string
	var keywords []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"title":      title,
				"visibility": visibility,
			}
			if description != "" {
				body["description"] = description
			}
			if category != "" {
				body["category"] = category
			}
			if author != "" {
				body["author"] = author
			}
			if password != "" {
				body["password"] = password
			}
			if sourceRef != "" {
				body["source_ref"] = sourceRef
			}
			if len(keywords) > 0 {
				body["keywords"] = keywords
			}

			client := api.NewClient(getServerURL())
			var rec catalog.Record
			if err := client.Post(cmd.Context(), "/api/catalogs", body, &rec); err != nil {
				return err
			}
			return api.Output(rec)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Catalog title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Catalog description")
	cmd.Flags().StringVar(&category, "category", "", "Catalog category")
	cmd.Flags().StringVar(&author, "author", "", "Catalog author")
	cmd.Flags().StringVar(&visibility, "visibility", "public", "Visibility: public, private, or password")
	cmd.Flags().StringVar(&password, "password", "", "Password (required for password visibility)")
	cmd.Flags().StringVar(&sourceRef, "source", "", "Source reference (blob id or URL)")
	cmd.Flags().StringSliceVar(&keywords, "keywords", nil, "Keywords")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// UpdateCatalogEndpoint handles PATCH /api/catalogs/{id}.
type UpdateCatalogEndpoint struct{}

func (e *UpdateCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PATCH", "/api/catalogs/{id}", e.handler
}

func (e *UpdateCatalogEndpoint) RequiresInit() bool { return true }

func (e *UpdateCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCatalogInput(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	store := svcctx.CatalogsFrom(r.Context())
	updated, err := store.Update(r.PathValue("id"), func(rec *catalog.Record) {
		in.apply(rec)
	})
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "catalog not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (e *UpdateCatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	var title, description, visibility, password string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if cmd.Flags().Changed("title") {
				body["title"] = title
			}
			if cmd.Flags().Changed("description") {
				body["description"] = description
			}
			if cmd.Flags().Changed("visibility") {
				body["visibility"] = visibility
			}
			if cmd.Flags().Changed("password") {
				body["password"] = password
			}

			client := api.NewClient(getServerURL())
			var rec catalog.Record
			if err := client.Patch(cmd.Context(), "/api/catalogs/"+args[0], body, &rec); err != nil {
				return err
			}
			return api.Output(rec)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&visibility, "visibility", "", "New visibility")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	return cmd
}

// DeleteCatalogEndpoint handles DELETE /api/catalogs/{id}.
type DeleteCatalogEndpoint struct{}

func (e *DeleteCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/catalogs/{id}", e.handler
}

func (e *DeleteCatalogEndpoint) RequiresInit() bool { return true }

func (e *DeleteCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CatalogsFrom(r.Context())
	if err := store.Delete(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "catalog not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteCatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/catalogs/"+args[0]); err != nil {
				return err
			}
			fmt.Printf("Catalog %s deleted\n", args[0])
			return nil
		},
	}
}
