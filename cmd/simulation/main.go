package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

var accessToken string

// Simplified DTOs for the script
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type stateData struct {
	Mode             string         `json:"mode"`
	ConvergenceReady bool           `json:"convergence_ready"`
	Confidence       map[string]int `json:"confidence"`
	NextUserPrompt   string         `json:"next_user_prompt"`
}

type sessionData struct {
	ID       string    `json:"id"`
	Greeting string    `json:"greeting"`
	State    stateData `json:"state"`
}

type chatData struct {
	Reply struct {
		Chat string `json:"chat"`
	} `json:"reply"`
	State          stateData `json:"state"`
	ModeAdvanced   bool      `json:"mode_advanced"`
	ModeRejected   bool      `json:"mode_rejected"`
	BlueprintReady bool      `json:"blueprint_ready"`
}

func main() {
	color.Cyan("🚀 Blueprint Conversation Simulation Client\n")

	// 1. Unlock the gate when a code is configured
	if code := os.Getenv("ACCESS_CODE"); code != "" {
		color.Yellow("\n[GATE] 1. Unlock access gate")
		resp, body, err := sendRequest("POST", "/gate/v1/unlock", map[string]string{"access_code": code})
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)

		var unlock struct {
			AccessToken string `json:"access_token"`
		}
		if err := decodeData(body, &unlock); err != nil {
			color.Red("Failed to decode unlock response: %v", err)
			os.Exit(1)
		}
		accessToken = unlock.AccessToken
	}

	// 2. Create session
	color.Yellow("\n[SESSION] 2. Create session")
	resp, body, err := sendRequest("POST", "/blueprint/v1/create-session", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	var session sessionData
	if err := decodeData(body, &session); err != nil {
		color.Red("Failed to decode session: %v", err)
		os.Exit(1)
	}
	fmt.Printf("Session ID: %s\n", session.ID)
	fmt.Printf("Greeting:   %s\n", session.Greeting)
	fmt.Printf("Prompt:     %s\n", session.State.NextUserPrompt)

	// 3. Walk the conversation through discovery toward a locked intent
	turns := []string{
		"I want to build an app that plans weekly meals for busy families and auto-generates grocery lists.",
		"Mostly dual-income parents with young kids. They shop once a week and hate deciding what to cook every evening.",
		"You are right that retention is the hard part. A shared family account with rotating favorites fits our idea better than pure novelty.",
		"No, that direction captures it. Nothing feels fundamentally wrong or missing.",
		"Yes, go ahead and design the full blueprint.",
	}

	for i, text := range turns {
		color.Yellow("\n[TURN] 3.%d USER: %s", i+1, truncate(text, 80))

		start := time.Now()
		resp, body, err := sendRequest("POST", "/blueprint/v1/send-chat", map[string]string{
			"chat_session_id": session.ID,
			"chat":            text,
		})
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Failed: %v", err)
			continue
		}
		if resp.StatusCode != 200 {
			color.Red("API Error %d: %s", resp.StatusCode, string(body))
			continue
		}

		var chat chatData
		if err := decodeData(body, &chat); err != nil {
			color.Red("Failed to decode chat: %v", err)
			continue
		}

		color.Green("AI (%v): %s", elapsed.Round(time.Millisecond), truncate(chat.Reply.Chat, 200))
		fmt.Printf("mode=%s convergence=%t advanced=%t rejected=%t blueprint=%t\n",
			chat.State.Mode, chat.State.ConvergenceReady, chat.ModeAdvanced, chat.ModeRejected, chat.BlueprintReady)

		if chat.BlueprintReady {
			break
		}
	}

	// 4. Inspect the final state
	color.Yellow("\n[STATE] 4. Get session state")
	resp, body, err = sendRequest("GET", "/blueprint/v1/"+session.ID+"/state", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	var state stateData
	if err := decodeData(body, &state); err == nil {
		fmt.Printf("mode=%s confidence=%v\n", state.Mode, state.Confidence)
	}

	// 5. Download the blueprint (404 until the builder has produced one)
	color.Yellow("\n[BLUEPRINT] 5. Download blueprint")
	resp, body, err = sendRequest("GET", "/blueprint/v1/"+session.ID+"/blueprint", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode == 200 {
		color.Green("Status: %s (%d bytes of markdown)", resp.Status, len(body))
		if err := os.WriteFile("blueprint.md", body, 0644); err != nil {
			color.Red("Failed to save blueprint.md: %v", err)
		} else {
			fmt.Println("Saved to blueprint.md")
		}
	} else {
		color.Yellow("Blueprint not ready yet (%s). The model has not reached BUILDER.", resp.Status)
	}

	// 6. Reset back to a fresh discovery
	color.Yellow("\n[RESET] 6. Reset session")
	resp, body, err = sendRequest("POST", "/blueprint/v1/"+session.ID+"/reset", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	var reset struct {
		State stateData `json:"state"`
	}
	if err := decodeData(body, &reset); err == nil {
		fmt.Printf("mode=%s prompt=%q\n", reset.State.Mode, reset.State.NextUserPrompt)
	}

	color.Cyan("\nDone.")
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	client := &http.Client{} // No timeout: builder turns can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decodeData(body []byte, out interface{}) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("API error: %s", env.Message)
	}
	return json.Unmarshal(env.Data, out)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
