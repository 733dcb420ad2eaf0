package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Rules match the sign-up request of the HTTP API.
const (
	nameRules     = "required,min=3,max=100"
	emailRules    = "required,email,max=100"
	passwordRules = "required,min=8"
)

var validate = validator.New()

// check validates value against rules and reports the failing tag.
func check(field, value, rules string) error {
	err := validate.Var(value, rules)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		if fe.Param() != "" {
			return common.Validation(fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		}
		return common.Validation(fmt.Sprintf("%s failed %s", field, fe.Tag()))
	}
	return common.Internal("validate "+field, err)
}

// AddUser prompts for the account details and stores a verified user.
func (a *App) AddUser(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	if err := check("name", name, nameRules); err != nil {
		return err
	}

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := check("email", email, emailRules); err != nil {
		return err
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	if err := check("password", string(password), passwordRules); err != nil {
		return err
	}
	if len(password) > cryptox.MaxPasswordBytes {
		return common.Validation(fmt.Sprintf("password must not exceed %d bytes", cryptox.MaxPasswordBytes))
	}
	confirm, err := GetPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	if !bytes.Equal(password, confirm) {
		return common.Validation("passwords do not match")
	}

	hash, err := cryptox.NewBcryptHasher(bcrypt.DefaultCost).Hash(string(password))
	if err != nil {
		if common.IsKind(err, common.KindValidation) {
			return err
		}
		return common.Internal("hash password", err)
	}

	db, err := repomanager.Open(ctx, a.config.DatabaseDriver, a.config.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	rm, err := repomanager.New(a.config.DatabaseDriver)
	if err != nil {
		return err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := rm.Users(db).Create(ctx, user); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created user %s (%s)\n", user.Email, user.ID)
	return nil
}
