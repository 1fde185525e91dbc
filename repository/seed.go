package repository

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"telconova-dispatch/models"

	"github.com/tidwall/gjson"
)

//go:embed seed.json
var seedData []byte

// SeedTechnicians returns a fresh copy of the initial technician roster
func SeedTechnicians() []models.Technician {
	var technicians []models.Technician
	mustDecodeSeed("technicians", &technicians)
	return technicians
}

// SeedOrders returns a fresh copy of the initial orders
func SeedOrders() []models.Order {
	var orders []models.Order
	mustDecodeSeed("orders", &orders)
	return orders
}

func mustDecodeSeed(path string, out interface{}) {
	raw := gjson.GetBytes(seedData, path)
	if !raw.IsArray() {
		panic(fmt.Sprintf("seed dataset has no %s array", path))
	}
	if err := json.Unmarshal([]byte(raw.Raw), out); err != nil {
		panic(fmt.Sprintf("seed dataset %s: %v", path, err))
	}
}
