package models

// SidebarMenuModel is a dashboard navigation item. Items form a tree through
// ParentID; ordering within a level follows SortOrder.
type SidebarMenuModel struct {
	ID        int    `json:"id"         gorm:"primaryKey"`
	Title     string `json:"title"      gorm:"not null"`
	Icon      string `json:"icon"`
	Path      string `json:"path"`
	ParentID  *int   `json:"parent_id"  gorm:"index"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"  gorm:"default:true"`
}

func (SidebarMenuModel) TableName() string { return "sidebar_menu" }

// RoleMenuModel grants a role access to a sidebar item.
type RoleMenuModel struct {
	ID     uint `json:"-"       gorm:"primaryKey"`
	RoleID int  `json:"role_id" gorm:"index;not null"`
	MenuID int  `json:"menu_id" gorm:"index;not null"`
}

func (RoleMenuModel) TableName() string { return "role_menu" }
