// Command seed creates the storefront schema and loads a small demo
// catalog of products and kits.
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"

	"github.com/mixbar/kitstore/internal/config"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		stock_quantity INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS kits (
		id BIGINT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		quantity INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS kit_products (
		kit_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (kit_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user VARCHAR(255) NOT NULL,
		kits JSON NOT NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_orders_user (user)
	)`,
}

type product struct {
	id    int64
	name  string
	price string
	stock int
}

type kit struct {
	id       int64
	name     string
	price    string
	quantity int
	products []int64
}

// Catalog kit ids stay below the custom id threshold.
var products = []product{
	{1, "Lime Juice", "2.50", 120},
	{2, "Ginger Beer", "3.25", 80},
	{3, "Grenadine", "4.10", 60},
	{4, "Orange Juice", "2.75", 150},
	{5, "Mint Bunch", "1.95", 40},
	{6, "Sparkling Water", "1.50", 200},
	{7, "Peach Nectar", "3.60", 70},
	{8, "Cranberry Juice", "2.90", 90},
}

var kits = []kit{
	{1, "Mocktail Deluxe", "12.99", 25, []int64{1, 2, 5}},
	{2, "Sunrise Sampler", "10.50", 30, []int64{3, 4, 6}},
	{3, "Sangria Splash", "11.25", 20, []int64{4, 7, 8}},
	{4, "Garden Fizz", "8.75", 35, []int64{5, 6, 1}},
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("create schema: %v", err)
		}
	}
	log.Println("schema ready")

	for _, p := range products {
		_, err := db.ExecContext(ctx, `
			INSERT INTO products (id, name, price, stock_quantity) VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE name = VALUES(name), price = VALUES(price), stock_quantity = VALUES(stock_quantity)`,
			p.id, p.name, p.price, p.stock)
		if err != nil {
			log.Fatalf("seed product %d: %v", p.id, err)
		}
	}
	log.Printf("seeded %d products", len(products))

	for _, k := range kits {
		_, err := db.ExecContext(ctx, `
			INSERT INTO kits (id, name, price, quantity) VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE name = VALUES(name), price = VALUES(price), quantity = VALUES(quantity)`,
			k.id, k.name, k.price, k.quantity)
		if err != nil {
			log.Fatalf("seed kit %d: %v", k.id, err)
		}
		if _, err := db.ExecContext(ctx, `DELETE FROM kit_products WHERE kit_id = ?`, k.id); err != nil {
			log.Fatalf("reset kit %d products: %v", k.id, err)
		}
		for pos, productID := range k.products {
			_, err := db.ExecContext(ctx, `
				INSERT INTO kit_products (kit_id, product_id, position) VALUES (?, ?, ?)`,
				k.id, productID, pos)
			if err != nil {
				log.Fatalf("seed kit %d product %d: %v", k.id, productID, err)
			}
		}
	}
	log.Printf("seeded %d kits", len(kits))
}
