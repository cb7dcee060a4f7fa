//go:build ignore

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(string(b))
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

	client := &http.Client{} // No timeout, LLM turns can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Matching Pipeline API Test\n")

	// 1. Create a specialist so the search has something to find
	color.Yellow("\n[SPECIALIST] 1. Create Specialist")
	resp, body, err := sendRequest("POST", "/specialist/v1", map[string]interface{}{
		"name":              "Anna Petrova",
		"tagline":           "CBT therapist for anxiety and burnout",
		"description":       "Licensed clinical psychologist, 8 years in private practice.",
		"category":          "psychology",
		"work_formats":      []string{"online"},
		"experience_years":  8,
		"gender":            "female",
		"price_minor":       450000,
		"accepting_clients": true,
		"contact_quota":     10,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 2. Open a conversation
	color.Yellow("\n[MATCH] 2. Create Session")
	resp, body, err = sendRequest("POST", "/match/v1/session", map[string]interface{}{
		"user_id": "smoke-test-user",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	var created struct {
		Data struct {
			SessionId string `json:"session_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.Data.SessionId == "" {
		color.Red("Could not extract session_id")
		os.Exit(1)
	}

	// 3. First turn: vague opener, expect identity questions back
	color.Yellow("\n[MATCH] 3. Converse (vague opener)")
	resp, body, err = sendRequest("POST", "/match/v1/converse", map[string]interface{}{
		"session_id": created.Data.SessionId,
		"message":    "I keep having panic attacks and I think I need a therapist",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 4. Second turn: answer the questions, expect ranked matches
	color.Yellow("\n[MATCH] 4. Converse (answers filled)")
	resp, body, err = sendRequest("POST", "/match/v1/converse", map[string]interface{}{
		"session_id": created.Data.SessionId,
		"message":    "Online sessions please, it's my first time and I want to start soon",
		"answers": map[string]interface{}{
			"gender":      "female",
			"age_bracket": "26-35",
			"urgency":     "soon",
		},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 5. Clean up the session
	color.Yellow("\n[MATCH] 5. Delete Session")
	resp, _, err = sendRequest("DELETE", "/match/v1/session/"+created.Data.SessionId, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	color.Cyan("\n✅ Smoke test finished")
}
