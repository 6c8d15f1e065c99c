package controllers

import (
	"strings"

	"grojet-admin-service/internal/app/middleware"
	"grojet-admin-service/internal/domain/models"
	"grojet-admin-service/internal/domain/services"
	"grojet-admin-service/internal/domain/services/container"
	"grojet-admin-service/internal/error/code"
	"grojet-admin-service/internal/error/response"
	"grojet-admin-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// InterfaceAuthController 定义认证控制器接口
type InterfaceAuthController interface {
	Login()
	Logout()
	GetProfile()
	UpdateProfile()
	ChangePassword()
	ToggleTwoFactor()
	VerifyPin()
	ResendOTP()
	VerifyOTP()
	CreateAdminWithToken()
	RotatePin()
}

// AuthController 认证与升级授权控制器
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController 创建一个新的认证控制器
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@grojet.com"`
	Password string `json:"password" binding:"required" example:"Admin@123"`
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	Name       *string `json:"name" example:"Ops Admin"`
	Phone      *string `json:"phone" example:"9876543210"`
	Department *string `json:"department" example:"Operations"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// TwoFactorRequest 两步验证开关请求
type TwoFactorRequest struct {
	Enable *bool `json:"enable" binding:"required"`
}

// VerifyPinRequest PIN验证请求
type VerifyPinRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// VerifyOTPRequest OTP验证请求
type VerifyOTPRequest struct {
	Otp string `json:"otp" binding:"required,len=6"`
}

// CreateAdminRequest 创建管理员请求
type CreateAdminRequest struct {
	Name        string                   `json:"name" binding:"required" example:"New Admin"`
	Email       string                   `json:"email" binding:"required,email" example:"new@grojet.com"`
	Password    string                   `json:"password" binding:"required" example:"Admin@123"`
	Role        string                   `json:"role" binding:"required" example:"admin"`
	Permissions []models.PermissionEntry `json:"permissions"`
	Phone       string                   `json:"phone" example:"9876543210"`
	Department  string                   `json:"department" example:"Operations"`
}

// RotatePinRequest 轮换授权PIN请求
type RotatePinRequest struct {
	NewPin string `json:"newPin" binding:"required"`
}

// HandleAuthFunc 返回一个处理认证请求的Gin处理函数
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "logout":
			controller.Logout()
		case "getProfile":
			controller.GetProfile()
		case "updateProfile":
			controller.UpdateProfile()
		case "changePassword":
			controller.ChangePassword()
		case "toggleTwoFactor":
			controller.ToggleTwoFactor()
		case "verifyPin":
			controller.VerifyPin()
		case "resendOtp":
			controller.ResendOTP()
		case "verifyOtp":
			controller.VerifyOTP()
		case "createAdmin":
			controller.CreateAdminWithToken()
		case "rotatePin":
			controller.RotatePin()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

func (c *AuthController) sessionService() services.InterfaceSessionService {
	return c.Container.GetService("session").(services.InterfaceSessionService)
}

func (c *AuthController) adminService() services.InterfaceAdminService {
	return c.Container.GetService("admin").(services.InterfaceAdminService)
}

func (c *AuthController) stepUpService() services.InterfaceStepUpService {
	return c.Container.GetService("stepup").(services.InterfaceStepUpService)
}

func (c *AuthController) config() *config.Config {
	return c.Container.GetService("config").(*config.Config)
}

// 1. Login 管理员登录
// @Summary      管理员登录
// @Description  邮箱密码登录，成功后种下会话Cookie并返回管理员信息
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "登录凭据"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/auth/login [post]
func (c *AuthController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "邮箱和密码不能为空")
		return
	}

	result, err := c.sessionService().Login(c.Ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromError(c.Ctx, err)
		return
	}

	cfg := c.config()
	c.Ctx.SetCookie(cfg.SessionCookieName, result.Token, int(cfg.SessionTTL.Seconds()), "/", "", false, true)

	c.Ctx.JSON(code.StatusOK, gin.H{
		"success": true,
		"admin":   result.Admin,
		"token":   result.Token,
	})
}

// 2. Logout 退出登录
// @Summary      退出登录
// @Description  撤销服务端会话并清除Cookie
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/auth/logout [post]
// @Security     BearerAuth
func (c *AuthController) Logout() {
	sessionID := c.Ctx.GetString("sessionID")
	if err := c.sessionService().Logout(c.Ctx.Request.Context(), sessionID); err != nil {
		failFromError(c.Ctx, err)
		return
	}

	cfg := c.config()
	c.Ctx.SetCookie(cfg.SessionCookieName, "", -1, "/", "", false, true)
	c.Ctx.JSON(code.StatusOK, gin.H{"message": "Logged out"})
}

// 3. GetProfile 获取当前管理员资料
// @Summary      获取个人资料
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/auth/profile [get]
// @Security     BearerAuth
func (c *AuthController) GetProfile() {
	admin := middleware.CurrentAdmin(c.Ctx)
	c.Ctx.JSON(code.StatusOK, gin.H{"admin": admin})
}

// 4. UpdateProfile 更新当前管理员资料
// @Summary      更新个人资料
// @Description  只允许修改姓名、电话和部门，角色和权限走管理接口
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "资料字段"
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/auth/profile [put]
// @Security     BearerAuth
func (c *AuthController) UpdateProfile() {
	var req UpdateProfileRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数")
		return
	}

	admin := middleware.CurrentAdmin(c.Ctx)
	updated, err := c.adminService().UpdateAdmin(admin.ID, admin.ID, &services.UpdateAdminInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Department: req.Department,
	})
	if err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{"admin": updated})
}

// 5. ChangePassword 修改当前管理员密码
// @Summary      修改密码
// @Description  需要先验证当前密码
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "当前密码和新密码"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  response.Response
// @Router       /admin/auth/change-password [post]
// @Security     BearerAuth
func (c *AuthController) ChangePassword() {
	var req ChangePasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "当前密码和新密码不能为空")
		return
	}

	admin := middleware.CurrentAdmin(c.Ctx)
	if err := c.adminService().ChangePassword(admin.ID, req.CurrentPassword, req.NewPassword); err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{"message": "Password updated"})
}

// 6. ToggleTwoFactor 开关两步验证
// @Summary      两步验证开关
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body TwoFactorRequest true "开关状态"
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/auth/2fa [post]
// @Security     BearerAuth
func (c *AuthController) ToggleTwoFactor() {
	var req TwoFactorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil || req.Enable == nil {
		response.ParamError(c.Ctx, "enable 字段不能为空")
		return
	}

	admin := middleware.CurrentAdmin(c.Ctx)
	updated, err := c.adminService().SetTwoFactor(admin.ID, *req.Enable)
	if err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{"admin": updated})
}

// 7. VerifyPin 升级授权第一步：验证PIN
// @Summary      验证授权PIN
// @Description  验证通过后向授权邮箱下发一次性验证码
// @Tags         StepUp
// @Accept       json
// @Produce      json
// @Param        request body VerifyPinRequest true "授权PIN"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.Response
// @Failure      423  {object}  response.Response
// @Router       /admin/auth/verify-pin [post]
// @Security     BearerAuth
func (c *AuthController) VerifyPin() {
	var req VerifyPinRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "pin 字段不能为空")
		return
	}

	sessionID := c.Ctx.GetString("sessionID")
	if err := c.stepUpService().VerifyPin(c.Ctx.Request.Context(), sessionID, req.Pin); err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{"message": "OTP sent to authorized email"})
}

// 8. ResendOTP 重新下发OTP
// @Summary      重发验证码
// @Description  需要本会话已通过PIN验证
// @Tags         StepUp
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.Response
// @Router       /admin/auth/resend-otp [post]
// @Security     BearerAuth
func (c *AuthController) ResendOTP() {
	sessionID := c.Ctx.GetString("sessionID")
	if err := c.stepUpService().ResendOTP(c.Ctx.Request.Context(), sessionID); err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{"message": "OTP sent to authorized email"})
}

// 9. VerifyOTP 升级授权第二步：验证OTP并领取授权令牌
// @Summary      验证OTP
// @Description  验证通过后返回一次性授权令牌，用于敏感操作
// @Tags         StepUp
// @Accept       json
// @Produce      json
// @Param        request body VerifyOTPRequest true "6位验证码"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.Response
// @Failure      410  {object}  response.Response
// @Failure      423  {object}  response.Response
// @Router       /admin/auth/verify-otp [post]
// @Security     BearerAuth
func (c *AuthController) VerifyOTP() {
	var req VerifyOTPRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "otp 必须为6位数字")
		return
	}

	sessionID := c.Ctx.GetString("sessionID")
	token, err := c.stepUpService().VerifyOTP(c.Ctx.Request.Context(), sessionID, req.Otp)
	if err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{
		"message":   "Authorization granted",
		"authToken": token,
	})
}

// extractStepUpToken 从授权头中提取升级令牌，会话本身走Cookie
func extractStepUpToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// 10. CreateAdminWithToken 消费授权令牌创建管理员
// @Summary      创建管理员（升级授权）
// @Description  授权头携带verify-otp返回的一次性令牌，令牌消费后立即作废
// @Tags         StepUp
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer 授权令牌"
// @Param        request body CreateAdminRequest true "新管理员信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/auth/create [post]
// @Security     BearerAuth
func (c *AuthController) CreateAdminWithToken() {
	token := extractStepUpToken(c.Ctx)
	if token == "" {
		response.Fail(c.Ctx, code.ErrStepUpTokenInvalid, nil)
		return
	}

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

	// 先消费令牌再落库。令牌一旦消费不退还，创建失败需重新走流程。
	sessionID := c.Ctx.GetString("sessionID")
	if err := c.stepUpService().Consume(c.Ctx.Request.Context(), sessionID, token); err != nil {
		failFromError(c.Ctx, err)
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

// 11. RotatePin 轮换授权PIN
// @Summary      轮换授权PIN
// @Description  仅超级管理员。旧PIN立即作废，已签发的OTP和令牌不受影响。
// @Tags         StepUp
// @Accept       json
// @Produce      json
// @Param        request body RotatePinRequest true "新PIN"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  response.Response
// @Router       /admin/auth/settings/pin [put]
// @Security     BearerAuth
func (c *AuthController) RotatePin() {
	var req RotatePinRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "newPin 字段不能为空")
		return
	}

	actor := middleware.CurrentAdmin(c.Ctx)
	if err := c.adminService().RotatePin(actor.ID, req.NewPin); err != nil {
		failFromError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(code.StatusOK, gin.H{"message": "PIN updated"})
}
