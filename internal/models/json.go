package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSON 通用 JSON 对象类型
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, j)
}

// InvoiceLineItems 发票行项目列表类型
type InvoiceLineItems []InvoiceLineItem

// Value 实现 driver.Valuer 接口
func (items InvoiceLineItems) Value() (driver.Value, error) {
	if items == nil {
		return json.Marshal([]InvoiceLineItem{})
	}
	return json.Marshal(items)
}

// Scan 实现 sql.Scanner 接口
func (items *InvoiceLineItems) Scan(value interface{}) error {
	if value == nil {
		*items = InvoiceLineItems{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, items)
}
