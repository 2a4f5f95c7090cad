package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/canteen-pos/middlewares"
	"github.com/yeremiapane/canteen-pos/models"
	"github.com/yeremiapane/canteen-pos/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB     *gorm.DB
	Tokens *utils.TokenManager
	// EmailDomain, when set, is the only domain accepted at login and registration.
	EmailDomain string
}

func NewUserController(db *gorm.DB, tokens *utils.TokenManager, emailDomain string) *UserController {
	return &UserController{DB: db, Tokens: tokens, EmailDomain: emailDomain}
}

type userResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	IsStaff   bool   `json:"is_staff"`
	UserType  string `json:"user_type"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsStaff:   u.IsStaff(),
		UserType:  u.UserType(),
	}
}

func (uc *UserController) allowedEmail(email string) bool {
	if uc.EmailDomain == "" {
		return true
	}
	return strings.HasSuffix(email, "@"+uc.EmailDomain)
}

func (uc *UserController) domainError() error {
	return errors.New("email: please use a valid address (@" + uc.EmailDomain + ")")
}

// Register creates a student account and signs it in.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,min=8"`
		ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
		FirstName       string `json:"first_name" binding:"required,max=150"`
		LastName        string `json:"last_name" binding:"max=150"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !uc.allowedEmail(email) {
		utils.RespondValidation(c, uc.domainError())
		return
	}

	var count int64
	if err := uc.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if count > 0 {
		utils.RespondValidation(c, errors.New("email: an account with this email already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	user := models.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      models.RoleStudent,
		IsActive:  true,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondValidation(c, errors.New("email: an account with this email already exists"))
			return
		}
		respondServiceError(c, err)
		return
	}

	token, err := uc.Tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "Account created successfully", gin.H{
		"token": token,
		"user":  newUserResponse(user),
	})
}

// Login user -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		UserType string `json:"user_type" binding:"omitempty,oneof=student staff"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondValidation(c, err)
		return
	}
	if input.UserType == "" {
		input.UserType = models.RoleStudent
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !uc.allowedEmail(email) {
		utils.RespondValidation(c, uc.domainError())
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, err)
			return
		}
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil || !user.IsActive {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if input.UserType == models.RoleStaff && !user.IsStaff() {
		utils.RespondError(c, http.StatusForbidden, errors.New("this account does not have staff privileges"))
		return
	}

	token, err := uc.Tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  newUserResponse(user),
	})
}

// Logout revokes the bearer token the request was made with.
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString(middlewares.CtxToken)
	claims, _ := c.Get(middlewares.CtxClaims)
	parsed, _ := claims.(*utils.CustomClaims)
	uc.Tokens.Revoke(token, parsed)

	utils.RespondJSON(c, http.StatusOK, "Logged out successfully", nil)
}

// GetProfile -> current user from the JWT
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := c.Get(middlewares.CtxUserID)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("authentication credentials were not provided"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("user no longer exists"))
			return
		}
		respondServiceError(c, err)
		return
	}
	if !user.IsActive {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user account is disabled"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", newUserResponse(user))
}
