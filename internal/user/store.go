package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/court-reservations/internal/database"
	"golang.org/x/crypto/bcrypt"
)

// New creates a new UserStore.
func New(db *sql.DB) UserStore {
	return NewWithCost(db, bcrypt.DefaultCost)
}

// NewWithCost creates a UserStore hashing passwords with the given bcrypt cost.
// Tests use bcrypt.MinCost to keep hashing fast.
func NewWithCost(db *sql.DB, cost int) UserStore {
	return &store{
		db:         db,
		bcryptCost: cost,
	}
}

const userColumns = `id, name, email, dni, password_hash, role, special_pending, created_at`

// Register creates an ordinary account. A special-tier request is recorded as
// pending and only takes effect once an administrator approves it.
func (s *store) Register(ctx context.Context, reg Registration) (*User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return s.insert(ctx, reg, RoleUser)
}

func (s *store) insert(ctx context.Context, reg Registration, role Role) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:             uuid.New().String(),
		Name:           reg.Name,
		Email:          reg.Email,
		DNI:            reg.DNI,
		PasswordHash:   string(hash),
		Role:           role,
		SpecialPending: reg.SpecialTier && role == RoleUser,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.DNI, u.PasswordHash, u.Role, u.SpecialPending, u.CreatedAt.Unix())
	if database.IsUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		log.Error("Failed to insert user", "error", err, "email", u.Email)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Info("Registered user", "userID", u.ID, "role", u.Role, "specialPending", u.SpecialPending)
	return u, nil
}

// Authenticate returns the user with the given email if the password matches.
func (s *store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	s.mu.RLock()
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
	u, err := scanUser(row)
	s.mu.RUnlock()
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get retrieves a user by id.
func (s *store) Get(ctx context.Context, userID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, userID)
}

func (s *store) get(ctx context.Context, userID string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// ListPendingSpecial returns ordinary users waiting for a special-tier decision.
func (s *store) ListPendingSpecial(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE special_pending = 1 AND role = ? ORDER BY created_at`, RoleUser)
	if err != nil {
		log.Error("Failed to query pending special users", "error", err)
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Error("Failed to scan user row", "error", err)
			continue
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// ResolveSpecialRequest approves or denies a pending special-tier request.
func (s *store) ResolveSpecialRequest(ctx context.Context, userID string, approve bool) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.SpecialPending {
		return nil, ErrNoPendingRequest
	}
	u.SpecialPending = false
	if approve {
		u.Role = RoleSpecialUser
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE users SET role = ?, special_pending = 0 WHERE id = ?`, u.Role, u.ID); err != nil {
		log.Error("Failed to resolve special request", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	log.Info("Resolved special-tier request", "userID", userID, "approved", approve)
	return u, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *store) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < minPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.get(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, string(hash), userID); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	log.Info("Password changed", "userID", userID)
	return nil
}

// EnsureAdmin creates an administrator account unless the email is already registered.
func (s *store) EnsureAdmin(ctx context.Context, reg Registration) (*User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	reg.SpecialTier = false
	u, err := s.insert(ctx, reg, RoleAdmin)
	if errors.Is(err, ErrEmailTaken) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, reg.Email)
		return scanUser(row)
	}
	return u, err
}

func scanUser(scanner interface{ Scan(...any) error }) (*User, error) {
	var u User
	var createdAt int64
	err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.DNI, &u.PasswordHash, &u.Role, &u.SpecialPending, &createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}
