package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foundercrm/backend/internal/config"
	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/internal/utils"
	"github.com/foundercrm/backend/pkg/response"
	"gorm.io/gorm"
)

const invitationTTL = 7 * 24 * time.Hour

type AuthService struct {
	db          *gorm.DB
	jwtConfig   *config.JWTConfig
	frontendURL string
	activity    *ActivityService
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig, frontendURL string) *AuthService {
	return &AuthService{
		db:          db,
		jwtConfig:   jwtCfg,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		activity:    NewActivityService(db),
	}
}

type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	WorkspaceName string `json:"workspaceName"`
}

type RegisterTeamMemberRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	WorkspaceCode string `json:"workspaceCode"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AcceptInvitationRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type InviteRequest struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// AuthResult is the common payload for register/login/accept flows.
type AuthResult struct {
	User      *models.User      `json:"user"`
	Workspace *models.Workspace `json:"workspace,omitempty"`
	Token     string            `json:"token"`
}

// InviteResult carries the shareable invitation link; delivery (email) is
// an external concern.
type InviteResult struct {
	Email          string    `json:"email"`
	InvitationLink string    `json:"invitationLink"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// Register creates a founder together with their workspace. Both rows are
// created in one transaction; the workspace code is regenerated until it is
// unique within that transaction.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResult, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.WorkspaceName == "" {
		return nil, response.NewValidation("please provide all required fields")
	}

	if taken, err := s.emailTaken(req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, response.NewConflict("user already exists with this email")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, response.NewServerError("registration failed").WithCause(err)
	}

	var user models.User
	var workspace models.Workspace

	err = s.db.Transaction(func(tx *gorm.DB) error {
		user = models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: hashed,
			Role:     models.RoleFounder,
			IsActive: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		code, err := uniqueWorkspaceCode(tx)
		if err != nil {
			return err
		}

		workspace = models.Workspace{
			Name:          req.WorkspaceName,
			WorkspaceCode: code,
			CreatedBy:     user.ID,
		}
		if err := tx.Create(&workspace).Error; err != nil {
			return err
		}

		user.WorkspaceID = &workspace.ID
		return tx.Model(&user).Update("workspace_id", workspace.ID).Error
	})
	if err != nil {
		return nil, response.NewServerError("registration failed").WithCause(err)
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: &user, Workspace: &workspace, Token: token}, nil
}

// Login authenticates by email and password. Unknown email, inactive
// account and wrong password all produce the same message so responses do
// not distinguish the cases.
func (s *AuthService) Login(req *LoginRequest) (*AuthResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, response.NewValidation("please provide email and password")
	}

	var user models.User
	err := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAuth("invalid credentials")
		}
		return nil, response.NewServerError("login failed").WithCause(err)
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewAuth("invalid credentials")
	}

	result := &AuthResult{User: &user}
	if user.WorkspaceID != nil {
		var workspace models.Workspace
		if err := s.db.First(&workspace, *user.WorkspaceID).Error; err == nil {
			result.Workspace = &workspace
		}
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, err
	}
	result.Token = token
	return result, nil
}

// RegisterTeamMember joins an existing workspace by its code. The code
// lookup is case-insensitive (codes are stored upper-case).
func (s *AuthService) RegisterTeamMember(req *RegisterTeamMemberRequest) (*AuthResult, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.WorkspaceCode == "" {
		return nil, response.NewValidation("please provide all required fields")
	}

	if taken, err := s.emailTaken(req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, response.NewConflict("user already exists with this email")
	}

	var workspace models.Workspace
	err := s.db.Where("workspace_code = ?", strings.ToUpper(req.WorkspaceCode)).
		First(&workspace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewValidation("invalid workspace code")
		}
		return nil, response.NewServerError("registration failed").WithCause(err)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, response.NewServerError("registration failed").WithCause(err)
	}

	user := models.User{
		Name:        req.Name,
		Email:       req.Email,
		Password:    hashed,
		Role:        models.RoleTeamMember,
		WorkspaceID: &workspace.ID,
		IsActive:    true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, response.NewServerError("registration failed").WithCause(err)
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: &user, Workspace: &workspace, Token: token}, nil
}

// InviteTeamMember creates a single-use invitation. Caller must already be
// verified as a founder by the route guard; the check is repeated here so
// the service cannot be misused from another call site.
func (s *AuthService) InviteTeamMember(callerID, workspaceID uint, callerRole models.Role, req *InviteRequest) (*InviteResult, error) {
	if callerRole != models.RoleFounder {
		return nil, response.NewForbidden("only founders can invite team members")
	}
	if workspaceID == 0 {
		return nil, response.NewValidation("caller has no workspace")
	}
	if req.Email == "" {
		return nil, response.NewValidation("email is required")
	}

	role := req.Role
	if role == "" {
		role = models.RoleTeamMember
	}
	if !role.Valid() {
		return nil, response.NewValidation("invalid role")
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ? AND workspace_id = ?", req.Email, workspaceID).
		Count(&count).Error; err != nil {
		return nil, response.NewServerError("failed to send invitation").WithCause(err)
	}
	if count > 0 {
		return nil, response.NewConflict("user already exists in this workspace")
	}

	token, err := utils.GenerateInvitationToken()
	if err != nil {
		return nil, response.NewServerError("failed to send invitation").WithCause(err)
	}

	invitation := models.Invitation{
		WorkspaceID: workspaceID,
		Email:       req.Email,
		Role:        role,
		Token:       token,
		InvitedBy:   callerID,
		ExpiresAt:   time.Now().Add(invitationTTL),
	}
	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, response.NewServerError("failed to send invitation").WithCause(err)
	}

	s.activity.Log(workspaceID, callerID, "invited", "invitation", invitation.ID,
		fmt.Sprintf("Invited %s as %s", req.Email, role))

	return &InviteResult{
		Email:          req.Email,
		InvitationLink: fmt.Sprintf("%s/accept-invitation/%s", s.frontendURL, token),
		ExpiresAt:      invitation.ExpiresAt,
	}, nil
}

// AcceptInvitation consumes an invitation token exactly once: creates the
// user and flips the accepted flag in one transaction.
func (s *AuthService) AcceptInvitation(req *AcceptInvitationRequest) (*AuthResult, error) {
	if req.Token == "" || req.Name == "" || req.Password == "" {
		return nil, response.NewValidation("please provide all required fields")
	}

	var invitation models.Invitation
	err := s.db.Where("token = ? AND accepted = ?", req.Token, false).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("invalid or expired invitation")
		}
		return nil, response.NewServerError("failed to accept invitation").WithCause(err)
	}
	if invitation.Expired(time.Now()) {
		return nil, response.NewNotFound("invalid or expired invitation")
	}

	if taken, err := s.emailTaken(invitation.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, response.NewConflict("user already exists with this email")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, response.NewServerError("failed to accept invitation").WithCause(err)
	}

	user := models.User{
		Name:        req.Name,
		Email:       invitation.Email,
		Password:    hashed,
		Role:        invitation.Role,
		WorkspaceID: &invitation.WorkspaceID,
		IsActive:    true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Model(&invitation).Update("accepted", true).Error
	})
	if err != nil {
		return nil, response.NewServerError("failed to accept invitation").WithCause(err)
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: &user, Token: token}, nil
}

// GetMe returns the user plus their workspace.
func (s *AuthService) GetMe(userID uint) (*AuthResult, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, response.NewNotFound("user not found")
	}

	result := &AuthResult{User: &user}
	if user.WorkspaceID != nil {
		var workspace models.Workspace
		if err := s.db.First(&workspace, *user.WorkspaceID).Error; err == nil {
			result.Workspace = &workspace
		}
	}
	return result, nil
}

func (s *AuthService) emailTaken(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, response.NewServerError("lookup failed").WithCause(err)
	}
	return count > 0, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtConfig.ExpireHour)
	if err != nil {
		return "", response.NewServerError("failed to issue token").WithCause(err)
	}
	return token, nil
}

// uniqueWorkspaceCode generates codes until one does not collide. Runs
// inside the registration transaction so the uniqueness check and insert
// see the same state.
func uniqueWorkspaceCode(tx *gorm.DB) (string, error) {
	for {
		code, err := utils.GenerateWorkspaceCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(&models.Workspace{}).
			Where("workspace_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}
