package developer

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/re-admin/core/internal/pkg/apperr"
	"github.com/re-admin/core/internal/pkg/blobstore"
	"github.com/re-admin/core/internal/pkg/formdata"
	"github.com/re-admin/core/internal/pkg/pagination"
	"github.com/re-admin/core/internal/pkg/response"
)

type Handler struct {
	svc     *Service
	blobs   blobstore.Store
	folders blobstore.Folders
}

func NewHandler(svc *Service, blobs blobstore.Store, folders blobstore.Folders) *Handler {
	return &Handler{svc: svc, blobs: blobs, folders: folders}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/developers", authMW)
	g.GET("", h.list)
	g.GET("/count", h.count)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PATCH("/:id", h.update)
	g.PATCH("/:id/status", h.setStatus)
	g.POST("/:id/toggle-status", h.toggleStatus)
	g.DELETE("/:id", h.delete)
}

// RegisterPublicRoutes exposes the unauthenticated read surface.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/developers")
	g.GET("", h.list)
	g.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c, MaxPageSize)
	items, pag, err := h.svc.List(q, c.Query("name"), c.Query("city"))
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]developerResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

func (h *Handler) count(c *gin.Context) {
	n, err := h.svc.Count()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"count": n})
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if d == nil {
		response.NotFound(c, "developer not found")
		return
	}
	response.OK(c, toResponse(d))
}

func (h *Handler) create(c *gin.Context) {
	in := CreateInput{
		Name:   c.PostForm("name"),
		Slug:   c.PostForm("slug"),
		Active: formdata.Bool(c.PostForm("active")),
		Cities: formdata.DecodeJSON(c.PostForm("cities"), []string{}),
	}
	in.Email = optionalField(c, "email")
	in.Phone = optionalField(c, "phone")
	in.Website = optionalField(c, "website")
	in.About = optionalField(c, "about")
	in.Country = optionalField(c, "country")

	if url, err := h.uploadLogo(c); err != nil {
		response.Error(c, err)
		return
	} else if url != "" {
		in.LogoURL = &url
	}

	res, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resultPayload(res))
}

func (h *Handler) update(c *gin.Context) {
	var in UpdateInput
	if v, ok := c.GetPostForm("name"); ok {
		in.Name = &v
	}
	if v, ok := c.GetPostForm("slug"); ok {
		in.Slug = &v
	}
	if v, ok := c.GetPostForm("email"); ok {
		in.Email = &v
	}
	if v, ok := c.GetPostForm("phone"); ok {
		in.Phone = &v
	}
	if v, ok := c.GetPostForm("website"); ok {
		in.Website = &v
	}
	if v, ok := c.GetPostForm("about"); ok {
		in.About = &v
	}
	if v, ok := c.GetPostForm("country"); ok {
		in.Country = &v
	}
	if v, ok := c.GetPostForm("active"); ok {
		active := formdata.Bool(v)
		in.Active = &active
	}
	if v, ok := c.GetPostForm("cities"); ok {
		cities := formdata.DecodeJSON(v, []string{})
		in.Cities = &cities
	}
	in.RemoveLogo = formdata.Bool(c.PostForm("remove_photo"))

	if url, err := h.uploadLogo(c); err != nil {
		response.Error(c, err)
		return
	} else if url != "" {
		in.ReplaceLogoURL = &url
	}

	res, err := h.svc.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		response.Error(c, err)
		return
	}
	if res == nil {
		response.NotFound(c, "developer not found")
		return
	}
	response.OK(c, resultPayload(res))
}

func (h *Handler) setStatus(c *gin.Context) {
	var body struct {
		Active *bool `json:"active" form:"active"`
	}
	if err := c.ShouldBind(&body); err != nil || body.Active == nil {
		response.BadRequest(c, "active is required")
		return
	}
	d, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), *body.Active)
	if err != nil {
		response.Error(c, err)
		return
	}
	if d == nil {
		response.NotFound(c, "developer not found")
		return
	}
	response.OK(c, toResponse(d))
}

func (h *Handler) toggleStatus(c *gin.Context) {
	d, err := h.svc.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if d == nil {
		response.NotFound(c, "developer not found")
		return
	}
	response.OK(c, toResponse(d))
}

func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.NotFound(c, "developer not found")
		return
	}
	response.OK(c, gin.H{"id": c.Param("id")})
}

// uploadLogo stores the "photo" form file, returning "" when none was sent.
func (h *Handler) uploadLogo(c *gin.Context) (string, error) {
	fh, err := c.FormFile("photo")
	if err != nil {
		return "", nil
	}

	f, err := fh.Open()
	if err != nil {
		return "", apperr.Validation("unreadable upload: " + fh.Filename)
	}
	defer f.Close()

	payload, err := io.ReadAll(f)
	if err != nil {
		return "", apperr.Validation("unreadable upload: " + fh.Filename)
	}

	url, err := h.blobs.Put(c.Request.Context(), h.folders.Developers, fh.Filename, fh.Header.Get("Content-Type"), payload)
	if err != nil {
		return "", apperr.BlobStore(err)
	}
	return url, nil
}

func optionalField(c *gin.Context, name string) *string {
	if v := c.PostForm(name); v != "" {
		return &v
	}
	return nil
}

func resultPayload(res *Result) gin.H {
	payload := gin.H{"developer": toResponse(res.Developer)}
	if len(res.Warnings) > 0 {
		payload["warnings"] = res.Warnings
	}
	return payload
}
