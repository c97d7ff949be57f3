package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game interactively over the websocket channel",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room and wait for an opponent",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cfg, name)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.createRoom(); err != nil {
				return err
			}
			return s.run()
		},
	}

	joinCmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join an existing room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cfg, name)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.joinRoom(args[0]); err != nil {
				return err
			}
			return s.run()
		},
	}

	for _, c := range []*cobra.Command{createCmd, joinCmd} {
		c.Flags().StringVarP(&name, "name", "n", "", "Display name")
		_ = c.MarkFlagRequired("name")
	}

	cmd.AddCommand(createCmd)
	cmd.AddCommand(joinCmd)

	return cmd
}

type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Action payloads. Every room-scoped action carries the room code; the
// server resolves the room from it, not from the connection.

type createRoomMsg struct {
	Name string `json:"name"`
}

type joinRoomMsg struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

type submitSecretMsg struct {
	RoomID string `json:"room_id"`
	Secret string `json:"secret"`
}

type submitGuessMsg struct {
	RoomID string `json:"room_id"`
	Guess  string `json:"guess"`
}

// session is a single interactive game played over one websocket connection.
type session struct {
	conn *websocket.Conn
	name string
	// room is the code of the joined room: set on join, or from the
	// room_created event when creating
	room string

	events chan wsEvent
	lines  chan string
	errs   chan error
}

func newSession(cfg *Config, name string) (*session, error) {
	wsURL, err := websocketURL(cfg.ServerURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}

	s := &session{
		conn:   conn,
		name:   name,
		events: make(chan wsEvent),
		lines:  make(chan string),
		errs:   make(chan error, 1),
	}

	go s.readEvents()
	go s.readStdin()

	return s, nil
}

func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	return u.String(), nil
}

func (s *session) createRoom() error {
	return s.send("create_room", createRoomMsg{Name: s.name})
}

func (s *session) joinRoom(code string) error {
	s.room = code
	return s.send("join_room", joinRoomMsg{RoomID: code, Name: s.name})
}

func (s *session) submitSecret(secret string) error {
	return s.send("submit_secret", submitSecretMsg{RoomID: s.room, Secret: secret})
}

func (s *session) submitGuess(guess string) error {
	return s.send("submit_guess", submitGuessMsg{RoomID: s.room, Guess: guess})
}

func (s *session) send(action string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	msg := map[string]json.RawMessage{
		"action": json.RawMessage(fmt.Sprintf("%q", action)),
		"data":   payload,
	}
	return s.conn.WriteJSON(msg)
}

func (s *session) readEvents() {
	for {
		var ev wsEvent
		if err := s.conn.ReadJSON(&ev); err != nil {
			s.errs <- err
			return
		}
		s.events <- ev
	}
}

func (s *session) readStdin() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		s.lines <- strings.TrimSpace(scanner.Text())
	}
}

// run drives the game until game_over, the connection drops, or Ctrl+C.
func (s *session) run() error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	// What the next stdin line means: "" (nothing expected), "secret", "guess".
	expect := ""

	for {
		select {
		case <-sig:
			fmt.Println("\nDisconnecting...")
			return nil

		case err := <-s.errs:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)

		case line := <-s.lines:
			if line == "" {
				continue
			}
			switch expect {
			case "secret":
				if err := s.submitSecret(line); err != nil {
					return err
				}
			case "guess":
				if err := s.submitGuess(line); err != nil {
					return err
				}
			}

		case ev := <-s.events:
			done, next, err := s.render(ev)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			if next != "" {
				expect = next
			}
			switch ev.Event {
			case "secret_saved", "wait_turn":
				expect = ""
			}
		}
	}
}

// render prints an event and reports whether the game is over and what
// input should be prompted for next.
func (s *session) render(ev wsEvent) (done bool, expect string, err error) {
	switch ev.Event {
	case "room_created":
		var p struct {
			RoomID string `json:"room_id"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return false, "", err
		}
		s.room = p.RoomID
		fmt.Printf("Room created: %s\n", p.RoomID)
		fmt.Println("Share this code with your opponent.")

	case "room_update":
		var p struct {
			Players []string `json:"players"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return false, "", err
		}
		fmt.Printf("Players in room: %s\n", strings.Join(p.Players, ", "))
		if len(p.Players) == 2 {
			fmt.Print("Enter your secret: ")
			return false, "secret", nil
		}

	case "secret_saved":
		fmt.Println("Secret saved. Waiting for opponent...")

	case "secret_error":
		var p struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(ev.Data, &p)
		fmt.Printf("%s\nEnter your secret: ", p.Message)
		return false, "secret", nil

	case "start_game":
		var p struct {
			CurrentPlayer string `json:"current_player"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return false, "", err
		}
		fmt.Printf("Game on! %s goes first.\n", p.CurrentPlayer)

	case "your_turn":
		fmt.Print("Your guess: ")
		return false, "guess", nil

	case "wait_turn":
		fmt.Println("Waiting for opponent's guess...")

	case "invalid_turn":
		var p struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(ev.Data, &p)
		fmt.Printf("%s\nYour guess: ", p.Message)
		return false, "guess", nil

	case "guess_result":
		var p struct {
			PlayerID string `json:"player_id"`
			Guess    string `json:"guess"`
			Bulls    int    `json:"bulls"`
			Cows     int    `json:"cows"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return false, "", err
		}
		fmt.Printf("%s guessed %s: %d bulls, %d cows\n", p.PlayerID, p.Guess, p.Bulls, p.Cows)

	case "game_over":
		var p struct {
			Winner         string `json:"winner"`
			YourSecret     string `json:"your_secret"`
			OpponentSecret string `json:"opponent_secret"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return false, "", err
		}
		if p.Winner == s.name {
			fmt.Println("You win!")
		} else {
			fmt.Printf("Game over. %s wins.\n", p.Winner)
		}
		fmt.Printf("Your secret: %s, opponent's secret: %s\n", p.YourSecret, p.OpponentSecret)
		return true, "", nil

	case "room_error":
		var p struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(ev.Data, &p)
		return true, "", fmt.Errorf("%s", p.Message)

	default:
		if cfg != nil && cfg.Verbose {
			fmt.Printf("Unknown event %q: %s\n", ev.Event, string(ev.Data))
		}
	}

	return false, "", nil
}

func (s *session) close() {
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = s.conn.Close()
}
