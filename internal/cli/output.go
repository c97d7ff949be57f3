package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Room response type (matches API)
type Room struct {
	Code          string   `json:"code"`
	Status        string   `json:"status"`
	Players       []Player `json:"players"`
	CurrentPlayer *string  `json:"current_player,omitempty"`
	Winner        *string  `json:"winner,omitempty"`
	Rules         Rules    `json:"rules"`
}

// Rules response type
type Rules struct {
	CodeLength   int    `json:"code_length"`
	Digits       string `json:"digits"`
	AllowRepeats bool   `json:"allow_repeats"`
}

// Player response type
type Player struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"display_name"`
	HasSecret   bool          `json:"has_secret"`
	Guesses     []GuessRecord `json:"guesses,omitempty"`
}

// GuessRecord response type
type GuessRecord struct {
	Sequence int    `json:"sequence"`
	Guess    string `json:"guess"`
	Bulls    int    `json:"bulls"`
	Cows     int    `json:"cows"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Code Length: %d\n", r.Rules.CodeLength)
	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		secretStr := ""
		if p.HasSecret {
			secretStr = " [secret set]"
		}
		fmt.Printf("  - %s%s\n", p.DisplayName, secretStr)
		for _, g := range p.Guesses {
			fmt.Printf("      %d. %s: %d bulls, %d cows\n",
				g.Sequence, g.Guess, g.Bulls, g.Cows)
		}
	}
	if r.CurrentPlayer != nil {
		fmt.Printf("Current Turn: %s\n", *r.CurrentPlayer)
	}
	if r.Winner != nil {
		fmt.Printf("Winner: %s\n", *r.Winner)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
