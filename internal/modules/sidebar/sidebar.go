package sidebar

import (
	"github.com/gin-gonic/gin"
	"github.com/re-admin/core/internal/middleware"
	"github.com/re-admin/core/internal/models"
	"github.com/re-admin/core/internal/pkg/apperr"
	"github.com/re-admin/core/internal/pkg/response"
	"gorm.io/gorm"
)

// MenuNode is a sidebar item with its resolved children.
type MenuNode struct {
	ID        int         `json:"id"`
	Title     string      `json:"title"`
	Icon      string      `json:"icon"`
	Path      string      `json:"path"`
	ParentID  *int        `json:"parent_id"`
	SortOrder int         `json:"sort_order"`
	Children  []*MenuNode `json:"children"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// MenuForRole returns the active menu items granted to the role, assembled
// into a parent/children tree ordered by sort_order.
func (s *Service) MenuForRole(roleID int) ([]*MenuNode, error) {
	var items []models.SidebarMenuModel
	err := s.db.
		Where("id IN (?)",
			s.db.Model(&models.RoleMenuModel{}).Select("menu_id").Where("role_id = ?", roleID)).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&items).Error
	if err != nil {
		return nil, apperr.Store(err)
	}
	return BuildTree(items), nil
}

// BuildTree nests items under their parents, keeping the incoming order
// within each level. Items pointing at a missing or inactive parent are
// dropped, matching the admin frontend's expectation of a clean tree.
func BuildTree(items []models.SidebarMenuModel) []*MenuNode {
	byID := make(map[int]*MenuNode, len(items))
	for _, item := range items {
		byID[item.ID] = &MenuNode{
			ID:        item.ID,
			Title:     item.Title,
			Icon:      item.Icon,
			Path:      item.Path,
			ParentID:  item.ParentID,
			SortOrder: item.SortOrder,
			Children:  []*MenuNode{},
		}
	}

	roots := []*MenuNode{}
	for _, item := range items {
		node := byID[item.ID]
		if item.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := byID[*item.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}
	return roots
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/sidebar", authMW)
	g.GET("", h.menu)
}

func (h *Handler) menu(c *gin.Context) {
	roleID := middleware.CurrentRoleID(c)
	if roleID == 0 {
		response.BadRequest(c, "missing role in token")
		return
	}
	menu, err := h.svc.MenuForRole(roleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, menu)
}
