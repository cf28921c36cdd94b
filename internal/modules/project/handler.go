package project

import (
	"io"
	"mime/multipart"

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
	g := rg.Group("/projects", authMW)
	g.GET("", h.list)
	g.GET("/count", h.count)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PATCH("/:id", h.update)
	g.PATCH("/:id/status", h.setStatus)
	g.POST("/:id/toggle-status", h.toggleStatus)
	g.DELETE("/:id", h.delete)

	g.POST("/uploads/hero", h.uploadHero)
	g.POST("/uploads/images", h.uploadImages)
	g.POST("/uploads/documents", h.uploadDocuments)
}

// RegisterPublicRoutes exposes the unauthenticated read surface.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/projects")
	g.GET("", h.list)
	g.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c, MaxPageSize)
	items, pag, err := h.svc.List(q, c.Query("title"))
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]projectResponse, len(items))
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
	p, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if p == nil {
		response.NotFound(c, "project not found")
		return
	}
	response.OK(c, toResponse(p))
}

func (h *Handler) create(c *gin.Context) {
	in := CreateInput{
		Title:        c.PostForm("title"),
		Slug:         c.PostForm("slug"),
		Description:  c.PostForm("description"),
		Location:     c.PostForm("location"),
		Status:       formdata.Bool(c.PostForm("status")),
		Amenities:    formdata.DecodeJSON(c.PostForm("amenities"), []map[string]interface{}{}),
		Meta:         formdata.DecodeJSON(c.PostForm("meta"), map[string]interface{}{}),
		ImageURLs:    formdata.DecodeJSON(c.PostForm("images"), []string{}),
		DocumentURLs: formdata.DecodeJSON(c.PostForm("documents"), []string{}),
	}
	if v := c.PostForm("category_id"); v != "" {
		in.CategoryID = &v
	}
	if v := c.PostForm("start_date"); v != "" {
		in.StartDate = &v
	}
	if v := c.PostForm("end_date"); v != "" {
		in.EndDate = &v
	}

	if url, err := h.uploadSingle(c, "hero_image", h.folders.Hero); err != nil {
		response.Error(c, err)
		return
	} else if url != "" {
		in.HeroImageURL = &url
	}
	imageURLs, err := h.uploadMany(c, "images", h.folders.Images)
	if err != nil {
		response.Error(c, err)
		return
	}
	in.ImageURLs = append(in.ImageURLs, imageURLs...)

	docURLs, err := h.uploadMany(c, "documents", h.folders.Documents)
	if err != nil {
		response.Error(c, err)
		return
	}
	in.DocumentURLs = append(in.DocumentURLs, docURLs...)

	p, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toResponse(p))
}

func (h *Handler) update(c *gin.Context) {
	var in UpdateInput
	if v, ok := c.GetPostForm("title"); ok {
		in.Title = &v
	}
	if v, ok := c.GetPostForm("slug"); ok {
		in.Slug = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		in.Description = &v
	}
	if v, ok := c.GetPostForm("category_id"); ok {
		in.CategoryID = &v
	}
	if v, ok := c.GetPostForm("location"); ok {
		in.Location = &v
	}
	if v, ok := c.GetPostForm("start_date"); ok {
		in.StartDate = &v
	}
	if v, ok := c.GetPostForm("end_date"); ok {
		in.EndDate = &v
	}
	if v, ok := c.GetPostForm("status"); ok {
		status := formdata.Bool(v)
		in.Status = &status
	}
	if v, ok := c.GetPostForm("amenities"); ok {
		amenities := formdata.DecodeJSON(v, []map[string]interface{}{})
		in.Amenities = &amenities
	}
	if v, ok := c.GetPostForm("meta"); ok {
		meta := formdata.DecodeJSON(v, map[string]interface{}{})
		in.Meta = &meta
	}
	if v, ok := c.GetPostForm("images"); ok {
		urls := formdata.DecodeJSON(v, []string{})
		in.ReplaceImageURLs = &urls
	}
	if v, ok := c.GetPostForm("documents"); ok {
		urls := formdata.DecodeJSON(v, []string{})
		in.ReplaceDocumentURLs = &urls
	}
	in.RemoveHero = formdata.Bool(c.PostForm("remove_hero"))

	if url, err := h.uploadSingle(c, "hero_image", h.folders.Hero); err != nil {
		response.Error(c, err)
		return
	} else if url != "" {
		in.ReplaceHeroURL = &url
	}
	var err error
	if in.AppendImageURLs, err = h.uploadMany(c, "images", h.folders.Images); err != nil {
		response.Error(c, err)
		return
	}
	if in.AppendDocumentURLs, err = h.uploadMany(c, "documents", h.folders.Documents); err != nil {
		response.Error(c, err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		response.Error(c, err)
		return
	}
	if p == nil {
		response.NotFound(c, "project not found")
		return
	}
	response.OK(c, toResponse(p))
}

func (h *Handler) setStatus(c *gin.Context) {
	var body struct {
		Status *bool `json:"status" form:"status"`
	}
	if err := c.ShouldBind(&body); err != nil || body.Status == nil {
		response.BadRequest(c, "status is required")
		return
	}
	p, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), *body.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	if p == nil {
		response.NotFound(c, "project not found")
		return
	}
	response.OK(c, toResponse(p))
}

func (h *Handler) toggleStatus(c *gin.Context) {
	p, err := h.svc.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if p == nil {
		response.NotFound(c, "project not found")
		return
	}
	response.OK(c, toResponse(p))
}

func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.NotFound(c, "project not found")
		return
	}
	response.OK(c, gin.H{"id": c.Param("id")})
}

func (h *Handler) uploadHero(c *gin.Context) {
	url, err := h.uploadSingle(c, "file", h.folders.Hero)
	if err != nil {
		response.Error(c, err)
		return
	}
	if url == "" {
		response.BadRequest(c, "no file uploaded")
		return
	}
	response.OK(c, gin.H{"url": url})
}

func (h *Handler) uploadImages(c *gin.Context) {
	h.uploadBatch(c, "files", h.folders.Images)
}

func (h *Handler) uploadDocuments(c *gin.Context) {
	h.uploadBatch(c, "files", h.folders.Documents)
}

func (h *Handler) uploadBatch(c *gin.Context, field, folder string) {
	urls, err := h.uploadMany(c, field, folder)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(urls) == 0 {
		response.BadRequest(c, "no files uploaded")
		return
	}
	response.OK(c, gin.H{"urls": urls})
}

// uploadSingle stores the first file under field, returning "" when the form
// carries no such file.
func (h *Handler) uploadSingle(c *gin.Context, field, folder string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	return h.putFile(c, fh, folder)
}

func (h *Handler) uploadMany(c *gin.Context, field, folder string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	files := form.File[field]
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := h.putFile(c, fh, folder)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (h *Handler) putFile(c *gin.Context, fh *multipart.FileHeader, folder string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", apperr.Validation("unreadable upload: " + fh.Filename)
	}
	defer f.Close()

	payload, err := io.ReadAll(f)
	if err != nil {
		return "", apperr.Validation("unreadable upload: " + fh.Filename)
	}

	url, err := h.blobs.Put(c.Request.Context(), folder, fh.Filename, fh.Header.Get("Content-Type"), payload)
	if err != nil {
		return "", apperr.BlobStore(err)
	}
	return url, nil
}
