package services

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
)

// portalScreens lists what each role can open after logging in.
var portalScreens = map[string][]string{
	models.RoleManager:  {"dashboard", "menu", "staff", "inventory", "reservations", "reports"},
	models.RoleWaiter:   {"take-order", "view-orders", "table-status"},
	models.RoleChef:     {"kitchen-display"},
	models.RoleCashier:  {"billing"},
	models.RoleCustomer: {"menu", "reservations"},
}

func ScreensFor(role string) []string {
	return portalScreens[role]
}

type AuthService struct {
	db     *gorm.DB
	tokens *utils.TokenManager
	store  utils.TokenStore
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenManager, store utils.TokenStore) *AuthService {
	return &AuthService{db: db, tokens: tokens, store: store}
}

type LoginResult struct {
	Token   string         `json:"token"`
	Session models.Session `json:"session"`
	Screens []string       `json:"screens"`
}

func (s *AuthService) issue(subjectID uint, name, role string) (*LoginResult, error) {
	token, session, err := s.tokens.Issue(subjectID, name, role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Session: session, Screens: ScreensFor(role)}, nil
}

// StaffLogin succeeds only for an active account whose username, password
// and role all match.
func (s *AuthService) StaffLogin(ctx context.Context, username, password, role string) (*LoginResult, error) {
	if !models.IsStaffRole(role) {
		return nil, utils.Invalidf("unknown staff role %q", role)
	}

	var staff models.Staff
	err := s.db.WithContext(ctx).
		Where("username = ? AND role = ? AND active = ?", username, role, true).
		First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.Unauthorizedf("invalid credentials")
	}
	if err != nil {
		return nil, utils.DBError(err, "find staff")
	}
	if !utils.CheckPassword(staff.Password, password) {
		return nil, utils.Unauthorizedf("invalid credentials")
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"staff_id": staff.ID,
		"role":     staff.Role,
	}).Info("staff logged in")
	return s.issue(staff.ID, staff.Username, staff.Role)
}

// RegisterCustomer creates a customer account. A customer already on file
// with the same name and phone (for example from a front desk booking) is
// reused and gets the email filled in if it had none.
func (s *AuthService) RegisterCustomer(ctx context.Context, name, phone string, email *string) (*LoginResult, *models.Customer, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return nil, nil, utils.Invalidf("name and phone are required")
	}
	if email != nil && *email != "" && !utils.ValidEmail(*email) {
		return nil, nil, utils.Invalidf("invalid email %q", *email)
	}

	var customer *models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findOrCreateCustomer(tx, name, phone, email)
		if err != nil {
			return err
		}
		if c.Email == nil && email != nil && *email != "" {
			c.Email = email
			if err := tx.Model(c).Update("email", *email).Error; err != nil {
				return utils.DBError(err, "update customer email")
			}
		}
		customer = c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	result, err := s.issue(customer.ID, customer.Name, models.RoleCustomer)
	if err != nil {
		return nil, nil, err
	}
	utils.InfoLogger.WithField("customer_id", customer.ID).Info("customer registered")
	return result, customer, nil
}

func (s *AuthService) CustomerLogin(ctx context.Context, name, phone string) (*LoginResult, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Where("name = ? AND phone = ?", strings.TrimSpace(name), strings.TrimSpace(phone)).
		Order("id").First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.Unauthorizedf("no customer with that name and phone")
	}
	if err != nil {
		return nil, utils.DBError(err, "find customer")
	}
	return s.issue(customer.ID, customer.Name, models.RoleCustomer)
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.store.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return nil, errors.Wrap(err, "check token revocation")
	}
	if revoked {
		return nil, utils.Unauthorizedf("token has been revoked")
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, session models.Session) error {
	if err := s.store.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return err
	}
	utils.InfoLogger.WithFields(map[string]interface{}{
		"subject_id": session.SubjectID,
		"role":       session.Role,
	}).Info("logged out")
	return nil
}
