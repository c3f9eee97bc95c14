package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the uuid in the application instead of relying on a
// database default, so the sqlite test driver behaves like postgres.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type BaseModelWithDeleted struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// JSONColumn marshals v into a datatypes.JSON column value.
// Array and struct fields are stored as JSON so the same models work on
// postgres and the sqlite test driver.
func JSONColumn(v interface{}) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// DecodeJSONColumn unmarshals a JSON column into out. Empty columns are a no-op.
func DecodeJSONColumn(col datatypes.JSON, out interface{}) error {
	if len(col) == 0 {
		return nil
	}
	return json.Unmarshal(col, out)
}

// StringsColumn decodes a JSON column that holds a string array.
func StringsColumn(col datatypes.JSON) []string {
	var out []string
	_ = DecodeJSONColumn(col, &out)
	return out
}
