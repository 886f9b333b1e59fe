package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
)

const saltBytes = 32

func main() {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate hash salt: %v", err)
	}
	salt := base64.StdEncoding.EncodeToString(buf)

	fmt.Println("=================================================")
	fmt.Println("  Poster ID Hash Salt")
	fmt.Println("=================================================")
	fmt.Println()
	fmt.Println("Add this to your config/private.yaml:")
	fmt.Printf("hash_salt: \"%s\"\n", salt)
	fmt.Println()
	fmt.Println("Or export it as NANABBS_HASH_SALT.")
	fmt.Println("Changing the salt changes every poster ID.")
	fmt.Println("=================================================")
}
