package models

import (
	"context"
	"errors"
	"html"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/campusworks/assets_backend/config"
	"github.com/campusworks/assets_backend/utils"
)

type User struct {
	ID         int       `gorm:"primary_key" json:"id"`
	Username   string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email      *string   `gorm:"size:100;unique" json:"email"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Department string    `gorm:"size:100" json:"department"`
	Password   string    `gorm:"size:255;not null" json:"password"`
	IsActive   *bool     `gorm:"not null" json:"is_active"`
	IsApproved *bool     `gorm:"not null;default:false" json:"is_approved"`
	Role       UserRole  `gorm:"type:enum('A', 'M', 'V');default:V" json:"role"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username   string `json:"username" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Password   string `json:"password" binding:"required"`
}

/*
caches:
	User:$username
	Token:$token -> username
	Tokens:$username -> set of live tokens
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Username)
}

type LoginInfo struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

// Register creates a pending account. An admin must approve it before login.
func Register(ctx context.Context, input *NewUser) (*User, error) {

	db := config.GetDB()
	var count int64

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, errors.New("invalid phone number")
		}
	}

	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", input.Username).Or("email = ?", input.Email).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("duplicate username or email")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	input.Email = strings.ToLower(input.Email)

	user := User{
		Username:   html.EscapeString(strings.TrimSpace(input.Username)),
		Name:       input.Name,
		Email:      utils.NilIfEmpty(input.Email),
		Phone:      input.Phone,
		Department: input.Department,
		Password:   string(hashedPassword),
		IsActive:   utils.NewTrue(),
		IsApproved: utils.NewFalse(),
		Role:       UserRoleViewer,
	}

	err = db.WithContext(ctx).Create(&user).Error
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

// passwordMatches reports whether password matches the stored bcrypt hash.
// Any comparison failure, including an empty or corrupt stored hash, counts
// as a mismatch.
func passwordMatches(hashed string, password string) bool {
	return utils.ComparePassword(hashed, password) == nil
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var err error
	var result LoginInfo

	user := User{}

	// get User info
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return &result, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
		if err != nil {
			return &result, errors.New("invalid username or password")
		}
	}

	// check login credentials
	if !passwordMatches(user.Password, password) {
		return &result, errors.New("invalid username or password")
	}

	if !utils.DereferencePtr(user.IsActive, false) {
		return &result, errors.New("user is disabled")
	}
	if !utils.DereferencePtr(user.IsApproved, false) {
		return &result, errors.New("account is awaiting admin approval")
	}

	// generate token & response
	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return &result, err
	}
	result.Token = token
	result.Name = user.Name
	result.Role = user.Role.DisplayName()

	tokenLifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		tokenLifespan = 24
	}

	// add new token to the user's tokens set; Token: keys back JWT revocation
	if err := config.AddRedisSet("Tokens:"+user.Username, token); err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("Token:"+token, user.Username, time.Duration(tokenLifespan)*time.Hour); err != nil {
		return &result, err
	}

	return &result, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + token); err != nil {
		return false, nil
	}
	// remove current token from tokens list
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return false, errors.New("user not found")
	}
	if err := config.RemoveRedisSetMember("Tokens:"+username, token); err != nil {
		return false, err
	}
	return true, nil
}

// ApproveUser activates a pending account and assigns its role. Admin only.
func ApproveUser(ctx context.Context, id int, role UserRole) (*User, error) {

	isAdmin, _ := utils.GetIsAdminFromContext(ctx)
	if !isAdmin {
		return nil, errors.New("unauthorized")
	}

	db := config.GetDB()
	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"IsApproved": utils.NewTrue(),
		"Role":       role,
	}).Error
	if err != nil {
		return nil, err
	}

	if err := user.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}

func GetAllUsers(ctx context.Context) ([]*User, error) {

	db := config.GetDB()
	var results []*User

	if err := db.WithContext(ctx).Order("created_at DESC").Find(&results).Error; err != nil {
		return results, errors.New("no user")
	}

	for i, u := range results {
		u.Password = ""
		results[i] = u
	}

	return results, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {

	db := config.GetDB()
	var result User

	err := db.WithContext(ctx).First(&result, id).Error
	if err != nil {
		return &result, utils.ErrorRecordNotFound
	}

	result.PrepareGive()
	return &result, nil
}

func GetUserByUsername(ctx context.Context, username string) (*User, error) {

	db := config.GetDB()
	var result User

	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&result).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}
