package dao

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON 自定义 JSON 类型，实现 Value() 和 Scan()
type JSON json.RawMessage

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, errors.New("空JSON")
	}
	return string(j), nil
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal JSON value")
	}
	*j = JSON(bytes)
	return nil
}

// MarshalJSON to output non base64 encoded []byte
func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON to deserialize []byte
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("json: Unmarshal on nil JSON pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}
