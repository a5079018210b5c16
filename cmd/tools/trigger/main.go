package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	adminSecret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
	if adminSecret == "" {
		fmt.Println("Missing ADMIN_SECRET environment variable")
		os.Exit(1)
	}

	base := os.Getenv("API_BASE_URL")
	if base == "" {
		base = "http://localhost:8081"
	}

	req, err := http.NewRequest("POST", base+"/api/v1/scrape", nil)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("X-Admin-Secret", adminSecret)
	req.Header.Set("Authorization", "Bearer "+adminSecret)

	client := &http.Client{Timeout: 30 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	fmt.Printf("Response Status: %s\n", resp.Status)
	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
