package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Prints bcrypt hashes for the demo accounts, or for passwords passed as
// arguments. Handy when extending the mock backend seed data.
func main() {
	passwords := os.Args[1:]
	if len(passwords) == 0 {
		passwords = []string{"demo123"}
	}

	for _, pass := range passwords {
		hash, err := bcrypt.GenerateFromPassword([]byte(pass), 10)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		fmt.Printf("Password: %s\nHash: %s\n\n", pass, string(hash))
	}
}
