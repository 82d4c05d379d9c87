package repositories

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/pritamkumarbishwas/backend/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByIDs(ids []int) ([]*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Search(keyword string, excludeID int) ([]*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, name, email, pic, is_admin, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Pic, &u.IsAdmin, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
                INSERT INTO users (name, email, pic, is_admin, password_hash)
                VALUES ($1, $2, $3, $4, $5)
                RETURNING id, created_at, updated_at
        `
	return r.DB.QueryRow(q, user.Name, user.Email, user.Pic, user.IsAdmin, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByIDs(ids []int) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	arr := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, int64(id))
	}
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1) ORDER BY id`
	rows, err := r.DB.Query(q, arr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByEmail returns (nil, nil) when no user has the given email.
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.DB.QueryRow(q, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
                UPDATE users
                SET name = $2, email = $3, pic = $4, password_hash = $5, updated_at = NOW()
                WHERE id = $1
                RETURNING updated_at
        `
	return r.DB.QueryRow(q, user.ID, user.Name, user.Email, user.Pic, user.PasswordHash).
		Scan(&user.UpdatedAt)
}

func (r *userRepository) Search(keyword string, excludeID int) ([]*models.User, error) {
	const q = `
                SELECT ` + userColumns + `
                FROM users
                WHERE id <> $1
                  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
                ORDER BY id
        `
	rows, err := r.DB.Query(q, excludeID, keyword)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
