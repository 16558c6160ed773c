package datatypes

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/plotnest/syndicate/types"
)

// StageNames stores a coupon's applicable stage list as a JSON column.
type StageNames []types.StageName

// Value return json value, implement driver.Valuer interface
func (m StageNames) Value() (driver.Value, error) {
	data, err := json.Marshal(m)
	return string(data), err
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (m *StageNames) Scan(val interface{}) error {
	if val == nil {
		*m = StageNames{}
		return nil
	}
	var ba []byte
	switch v := val.(type) {
	case []byte:
		ba = v
	case string:
		ba = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", val))
	}
	t := StageNames{}
	err := json.Unmarshal(ba, &t)
	*m = t
	return err
}

// GormDataType gorm common data type
func (m StageNames) GormDataType() string {
	return "jsonmap"
}

// GormDBDataType gorm db data type
func (StageNames) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "sqlite":
		return "JSON"
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	}
	return ""
}
