package main

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := []byte("admin") // 你要设置的密码
	hashedPassword, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	fmt.Printf("Username: admin\n")
	fmt.Printf("Hashed Password: %s\n", string(hashedPassword))
}

// INSERT INTO establishments (name, created_at, updated_at)
// VALUES ('总部园区', strftime('%Y-%m-%d %H:%M:%S', 'now'), strftime('%Y-%m-%d %H:%M:%S', 'now'));
// INSERT INTO users (username, password_hash, role, establishment_id, created_at, updated_at)
// VALUES ('admin', '$2a$10$/lpVGyBdxr9Px8aifH7K/.ozClF0Di54vuV0.tDllRQouMk.jj.dG', 'admin', 1, strftime('%Y-%m-%d %H:%M:%S', 'now'), strftime('%Y-%m-%d %H:%M:%S', 'now'));
