package lifecycle

import (
	"database/sql/driver"
	"fmt"
	"strconv"

	"gorm.io/gorm"
)

// State is the soft-delete state shared by every entity. It is persisted in
// the is_active column.
type State bool

const (
	Inactive State = false
	Active   State = true
)

func (s State) IsActive() bool {
	return s == Active
}

func (s State) String() string {
	if s {
		return "active"
	}
	return "inactive"
}

func (s State) Value() (driver.Value, error) {
	return bool(s), nil
}

func (s *State) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = Inactive
	case bool:
		*s = State(v)
	case int64:
		*s = State(v != 0)
	case []byte:
		return s.parse(string(v))
	case string:
		return s.parse(v)
	default:
		return fmt.Errorf("lifecycle: cannot scan %T into State", src)
	}
	return nil
}

func (s *State) parse(v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("lifecycle: cannot parse %q as State: %w", v, err)
	}
	*s = State(b)
	return nil
}

// MarshalJSON keeps the wire field a plain boolean (is_active).
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(s))), nil
}

// Scope restricts a query to rows in the given state.
func Scope(state State) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", state)
	}
}

// OnlyActive is the default read scope.
func OnlyActive(db *gorm.DB) *gorm.DB {
	return Scope(Active)(db)
}

// Deactivate flips a single Active row to Inactive and reports whether a row
// changed. A row that is already Inactive is left untouched.
func Deactivate(db *gorm.DB, model interface{}, id uint) (bool, error) {
	res := db.Model(model).Scopes(OnlyActive).Where("id = ?", id).Update("is_active", Inactive)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
