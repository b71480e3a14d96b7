package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

const apiBase = "http://localhost:8080/api/v1"

type Creator struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
	UserID   string `json:"userId"`
}

type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Success bool            `json:"success"`
}

func registerCreator(username, email, password string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("username", username)
	writer.WriteField("email", email)
	writer.WriteField("fullName", "Demo Creator "+username)
	writer.WriteField("password", password)

	part, err := writer.CreateFormFile("avatar", "avatar.png")
	if err != nil {
		return err
	}
	io.WriteString(part, fakePNG)
	writer.Close()

	resp, err := http.Post(apiBase+"/users/register", writer.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("registration failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func login(username, password string) (*Creator, error) {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})

	resp, err := http.Post(apiBase+"/users/login", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("login failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	var payload struct {
		User struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &Creator{
		Username: payload.User.Username,
		Email:    payload.User.Email,
		Password: password,
		Token:    payload.AccessToken,
		UserID:   payload.User.ID,
	}, nil
}

func publishVideo(token, title, description string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("title", title)
	writer.WriteField("description", description)

	part, err := writer.CreateFormFile("videoFile", "clip.mp4")
	if err != nil {
		return "", err
	}
	io.WriteString(part, fakeMP4)
	writer.Close()

	req, _ := http.NewRequest("POST", apiBase+"/videos/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("publish failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode failed: %w", err)
	}
	var video struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &video); err != nil {
		return "", fmt.Errorf("decode failed: %w", err)
	}
	return video.ID, nil
}

func watchVideo(token, videoID string) error {
	req, _ := http.NewRequest("GET", apiBase+"/videos/"+videoID, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("watch failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func generateUsername(index int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	random := make([]byte, 4)
	for i := range random {
		random[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("demo_%d_%d_%s", index, time.Now().Unix(), string(random))
}

var demoTitles = []string{
	"Getting started with the platform",
	"Studio tour",
	"Weekly devlog",
	"Top 10 moments",
	"Behind the scenes",
}

// Tiny placeholder payloads. The ingest adapter only needs bytes with the
// right extension; duration probing degrades to zero for these.
const (
	fakePNG = "\x89PNG\r\n\x1a\nplaceholder"
	fakeMP4 = "\x00\x00\x00\x18ftypmp42placeholder"
)

func main() {
	rand.Seed(time.Now().UnixNano())

	fmt.Println("Seeding demo creators and videos...")

	password := "demopassword123"
	var creators []*Creator

	for i := 1; i <= 3; i++ {
		username := generateUsername(i)
		email := username + "@example.com"
		if err := registerCreator(username, email, password); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to register creator %d: %v\n", i, err)
			os.Exit(1)
		}
		creator, err := login(username, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to login creator %d: %v\n", i, err)
			os.Exit(1)
		}
		creators = append(creators, creator)
		fmt.Printf("  Creator %d: %s\n", i, creator.Username)
	}

	fmt.Println("\nPublishing videos...")
	var videoIDs []string
	for i, creator := range creators {
		for j := 0; j < 2; j++ {
			title := demoTitles[(i*2+j)%len(demoTitles)]
			id, err := publishVideo(creator.Token, title, "Seeded demo video by "+creator.Username)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to publish for %s: %v\n", creator.Username, err)
				os.Exit(1)
			}
			videoIDs = append(videoIDs, id)
			fmt.Printf("  %s published %q\n", creator.Username, title)
		}
	}

	fmt.Println("\nGenerating views and watch history...")
	for _, creator := range creators {
		for _, id := range videoIDs {
			if err := watchVideo(creator.Token, id); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to watch %s: %v\n", id, err)
				os.Exit(1)
			}
		}
	}
	fmt.Printf("  %d views recorded\n", len(creators)*len(videoIDs))

	fmt.Println("\nDone. Credentials (all use password: demopassword123):")
	for i, creator := range creators {
		fmt.Printf("  Creator %d: %s / %s\n", i+1, creator.Username, creator.Password)
	}

	output := map[string]interface{}{
		"creators": creators,
		"videos":   videoIDs,
	}
	jsonOutput, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println("\nJSON OUTPUT (for scripts):")
	fmt.Println(string(jsonOutput))
}
