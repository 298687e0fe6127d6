package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
)

const dupEntryErrNo = 1062

func (r *Repo) RegisterUser(ctx context.Context, u domain.StoredUser) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL,
		u.ID,
		u.FullName,
		strings.ToLower(u.Email),
		u.PasswordHash,
		string(u.Role),
	)
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) && me.Number == dupEntryErrNo {
		return domain.ErrDuplicateEmail
	}
	return err
}

func scanUser(sc interface{ Scan(...any) error }) (domain.StoredUser, error) {
	var u domain.StoredUser
	var role string
	if err := sc.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &role); err != nil {
		return domain.StoredUser{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.StoredUser, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserByEmailSQL, email))
	if err == sql.ErrNoRows {
		return domain.StoredUser{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.StoredUser{}, err
	}
	return u, nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]domain.StoredUser, error) {
	rows, err := r.db.QueryContext(ctx, listUsersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StoredUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteUser(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, deleteUserSQL, email)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
