package services

import (
	"grojet-admin-service/internal/domain/models"
)

// fakeAdminService 只为测试提供PIN哈希和固定的管理员记录
type fakeAdminService struct {
	pinHash string
	admins  map[string]*models.Admin
	logins  []uint
}

func newFakeAdminService(pinHash string) *fakeAdminService {
	return &fakeAdminService{
		pinHash: pinHash,
		admins:  make(map[string]*models.Admin),
	}
}

func (f *fakeAdminService) CheckPassword(password, hash string) bool { return false }

func (f *fakeAdminService) GetAdminByID(id uint) (*models.Admin, error) {
	for _, admin := range f.admins {
		if admin.ID == id {
			return admin, nil
		}
	}
	return nil, ErrAdminNotFound
}

func (f *fakeAdminService) GetAdminByEmail(email string) (*models.Admin, error) {
	if admin, ok := f.admins[email]; ok {
		return admin, nil
	}
	return nil, ErrAdminNotFound
}

func (f *fakeAdminService) ListAdmins(query *AdminListQuery) ([]models.Admin, int64, error) {
	return nil, 0, nil
}

func (f *fakeAdminService) CreateAdmin(actorID uint, input *CreateAdminInput) (*models.Admin, error) {
	return nil, nil
}

func (f *fakeAdminService) UpdateAdmin(actorID, id uint, input *UpdateAdminInput) (*models.Admin, error) {
	return nil, nil
}

func (f *fakeAdminService) UpdateStatus(actorID, id uint, status string) (*models.Admin, error) {
	return nil, nil
}

func (f *fakeAdminService) UpdatePermissions(actorID, id uint, permissions models.PermissionSet) (*models.Admin, error) {
	return nil, nil
}

func (f *fakeAdminService) DeleteAdmin(actorID, id uint) error { return nil }

func (f *fakeAdminService) ChangePassword(id uint, currentPassword, newPassword string) error {
	return nil
}

func (f *fakeAdminService) SetTwoFactor(id uint, enabled bool) (*models.Admin, error) {
	return nil, nil
}

func (f *fakeAdminService) RecordLogin(id uint) error {
	f.logins = append(f.logins, id)
	return nil
}

func (f *fakeAdminService) GetPinHash() (string, error) { return f.pinHash, nil }

func (f *fakeAdminService) RotatePin(actorID uint, newPin string) error { return nil }

func (f *fakeAdminService) EnsureSeedData() error { return nil }

// fakeNotificationService 捕获下发的OTP验证码
type fakeNotificationService struct {
	codes chan string
}

func newFakeNotificationService() *fakeNotificationService {
	return &fakeNotificationService{codes: make(chan string, 16)}
}

func (f *fakeNotificationService) Connect() error { return nil }
func (f *fakeNotificationService) Disconnect()    {}

func (f *fakeNotificationService) SendOTP(email, code string) error {
	f.codes <- code
	return nil
}
