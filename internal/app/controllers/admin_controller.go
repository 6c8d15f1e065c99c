package controllers

import (
	"strconv"

	"grojet-admin-service/internal/app/middleware"
	"grojet-admin-service/internal/domain/models"
	"grojet-admin-service/internal/domain/services"
	"grojet-admin-service/internal/domain/services/container"
	"grojet-admin-service/internal/error/code"
	"grojet-admin-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAdminController 定义管理员管理控制器接口
type InterfaceAdminController interface {
	GetAdmins()
	GetAdmin()
	CreateAdmin()
	UpdateAdmin()
	UpdateStatus()
	UpdatePermissions()
	DeleteAdmin()
}

// AdminController 管理员管理控制器
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController 创建一个新的管理员管理控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// UpdateAdminRequest 更新管理员请求
type UpdateAdminRequest struct {
	Name        *string                  `json:"name" example:"Ops Admin"`
	Email       *string                  `json:"email" binding:"omitempty,email" example:"ops@grojet.com"`
	Role        *string                  `json:"role" example:"delivery_manager"`
	Permissions []models.PermissionEntry `json:"permissions"`
	Phone       *string                  `json:"phone" example:"9876543210"`
	Department  *string                  `json:"department" example:"Delivery"`
}

// UpdateStatusRequest 修改状态请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"suspended"`
}

// UpdatePermissionsRequest 替换权限矩阵请求
type UpdatePermissionsRequest struct {
	Permissions []models.PermissionEntry `json:"permissions"`
}

// HandleAdminFunc 返回一个处理管理员管理请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getAdmins":
			controller.GetAdmins()
		case "getAdmin":
			controller.GetAdmin()
		case "createAdmin":
			controller.CreateAdmin()
		case "updateAdmin":
			controller.UpdateAdmin()
		case "updateStatus":
			controller.UpdateStatus()
		case "updatePermissions":
			controller.UpdatePermissions()
		case "deleteAdmin":
			controller.DeleteAdmin()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

func (c *AdminController) adminService() services.InterfaceAdminService {
	return c.Container.GetService("admin").(services.InterfaceAdminService)
}

func (c *AdminController) targetID() (uint, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ParamError(c.Ctx, "无效的管理员ID")
		return 0, false
	}
	return uint(id), true
}

// 1. GetAdmins 获取管理员列表
// @Summary      获取管理员列表
// @Description  分页获取管理员列表，支持搜索和按角色、状态筛选
// @Tags         AdminManagement
// @Produce      json
// @Param        page query int false "页码, 默认为1"
// @Param        page_size query int false "每页条数, 默认为20"
// @Param        search query string false "搜索关键词(姓名、邮箱)"
// @Param        role query string false "角色筛选"
// @Param        status query string false "状态筛选"
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/admin-management [get]
// @Security     BearerAuth
func (c *AdminController) GetAdmins() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "20"))

	query := &services.AdminListQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Ctx.Query("search"),
		Role:     c.Ctx.Query("role"),
		Status:   c.Ctx.Query("status"),
	}

	admins, total, err := c.adminService().ListAdmins(query)
	if err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{
		"admins":     admins,
		"pagination": models.NewPaginationResult(int(total), query.Page, query.PageSize),
	})
}

// 2. GetAdmin 获取单个管理员
// @Summary      获取单个管理员
// @Tags         AdminManagement
// @Produce      json
// @Param        id path int true "管理员ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  response.Response
// @Router       /admin/admin-management/{id} [get]
// @Security     BearerAuth
func (c *AdminController) GetAdmin() {
	id, ok := c.targetID()
	if !ok {
		return
	}

	admin, err := c.adminService().GetAdminByID(id)
	if err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{"admin": admin})
}

// 3. CreateAdmin 快捷创建管理员
// @Summary      快捷创建管理员
// @Description  不走升级授权流程，仅超级管理员可用
// @Tags         AdminManagement
// @Accept       json
// @Produce      json
// @Param        request body CreateAdminRequest true "新管理员信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/admin-management [post]
// @Security     BearerAuth
func (c *AdminController) CreateAdmin() {
	var req CreateAdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		failFromError(c.Ctx, err)
		return
	}
	permissions, err := models.ParsePermissions(req.Permissions)
	if err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	actor := middleware.CurrentAdmin(c.Ctx)
	admin, err := c.adminService().CreateAdmin(actor.ID, &services.CreateAdminInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        role,
		Permissions: permissions,
		Phone:       req.Phone,
		Department:  req.Department,
	})
	if err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusCreated, gin.H{"admin": admin})
}

// 4. UpdateAdmin 更新管理员
// @Summary      更新管理员
// @Description  可更新资料字段、角色和权限矩阵
// @Tags         AdminManagement
// @Accept       json
// @Produce      json
// @Param        id path int true "管理员ID"
// @Param        request body UpdateAdminRequest true "更新字段"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/admin-management/{id} [put]
// @Security     BearerAuth
func (c *AdminController) UpdateAdmin() {
	id, ok := c.targetID()
	if !ok {
		return
	}

	var req UpdateAdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	input := &services.UpdateAdminInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
	}

	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			failFromError(c.Ctx, err)
			return
		}
		input.Role = &role
	}
	if req.Permissions != nil {
		permissions, err := models.ParsePermissions(req.Permissions)
		if err != nil {
			response.ParamError(c.Ctx, err.Error())
			return
		}
		input.Permissions = permissions
	}

	actor := middleware.CurrentAdmin(c.Ctx)
	admin, err := c.adminService().UpdateAdmin(actor.ID, id, input)
	if err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{"admin": admin})
}

// 5. UpdateStatus 修改管理员状态
// @Summary      修改管理员状态
// @Description  激活、停用或暂停。不允许操作自己。
// @Tags         AdminManagement
// @Accept       json
// @Produce      json
// @Param        id path int true "管理员ID"
// @Param        request body UpdateStatusRequest true "目标状态"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  response.Response
// @Router       /admin/admin-management/{id}/status [put]
// @Security     BearerAuth
func (c *AdminController) UpdateStatus() {
	id, ok := c.targetID()
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "status 字段不能为空")
		return
	}

	actor := middleware.CurrentAdmin(c.Ctx)
	admin, err := c.adminService().UpdateStatus(actor.ID, id, req.Status)
	if err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{"admin": admin})
}

// 6. UpdatePermissions 整体替换权限矩阵
// @Summary      替换管理员权限矩阵
// @Tags         AdminManagement
// @Accept       json
// @Produce      json
// @Param        id path int true "管理员ID"
// @Param        request body UpdatePermissionsRequest true "新权限矩阵"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  response.Response
// @Router       /admin/admin-management/{id}/permissions [put]
// @Security     BearerAuth
func (c *AdminController) UpdatePermissions() {
	id, ok := c.targetID()
	if !ok {
		return
	}

	var req UpdatePermissionsRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数")
		return
	}

	permissions, err := models.ParsePermissions(req.Permissions)
	if err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	actor := middleware.CurrentAdmin(c.Ctx)
	admin, err := c.adminService().UpdatePermissions(actor.ID, id, permissions)
	if err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{"admin": admin})
}

// 7. DeleteAdmin 删除管理员
// @Summary      删除管理员
// @Description  硬删除。不允许删除自己或最后一个超级管理员。
// @Tags         AdminManagement
// @Produce      json
// @Param        id path int true "管理员ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/admin-management/{id} [delete]
// @Security     BearerAuth
func (c *AdminController) DeleteAdmin() {
	id, ok := c.targetID()
	if !ok {
		return
	}

	actor := middleware.CurrentAdmin(c.Ctx)
	if err := c.adminService().DeleteAdmin(actor.ID, id); err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{"message": "Admin deleted"})
}
