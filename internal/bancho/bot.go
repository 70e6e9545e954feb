package bancho

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/onecho-dev/onecho/internal/model"
)

// BotName is the display name of the resident chat bot.
const BotName = "onecho"

// botToken is never issued by login; the bot is registered directly.
const botToken = "bot-session-token-00000000000000"

// NewBot builds the bot session: user id 1, no outbound queue (its
// Enqueue is a no-op) and synthetic stats.
func NewBot() *Session {
	user := model.User{
		ID:           model.BotID,
		Username:     BotName,
		UsernameSafe: model.MakeSafe(BotName),
		Privileges:   model.PrivPlayer | model.PrivModerator | model.PrivDeveloper,
		Country:      "in",
	}
	s := NewSession(user, botToken, "bot", 0, false, model.Geolocation{
		Country:     "in",
		CountryCode: model.CountryCode("in"),
	})
	s.IsBot = true
	s.SetStatus(model.Status{
		Action: model.ActionTesting,
		Text:   "the waters",
	})
	return s
}

// commandResult is a bot reply. Hidden results go only to the sender;
// visible ones are said by the bot to the whole channel.
type commandResult struct {
	text   string
	hidden bool
}

// commandHandler evaluates one bot command. args excludes the command
// word itself.
type commandHandler func(st *State, sender *Session, args []string) commandResult

type botCommand struct {
	usage string
	brief string
	fn    commandHandler
}

// botCommands is the static `!command` table. The help entry is
// registered in init because cmdHelp itself reads the table.
var botCommands = map[string]botCommand{
	"roll": {
		usage: "!roll [max]",
		brief: "roll a number between 1 and max (default 100)",
		fn:    cmdRoll,
	},
	"online": {
		usage: "!online",
		brief: "show how many users are online",
		fn:    cmdOnline,
	},
	"stats": {
		usage: "!stats",
		brief: "show your stats for your current mode",
		fn:    cmdStats,
	},
}

func init() {
	botCommands["help"] = botCommand{
		usage: "!help",
		brief: "list available commands",
		fn:    cmdHelp,
	}
}

// IsCommand reports whether a chat message invokes the bot.
func IsCommand(text string) bool {
	return strings.HasPrefix(text, "!")
}

// RunCommand evaluates a `!command` message and returns the reply.
func RunCommand(st *State, sender *Session, text string) commandResult {
	fields := strings.Fields(strings.TrimPrefix(text, "!"))
	if len(fields) == 0 {
		return commandResult{text: "Command not found.", hidden: true}
	}
	cmd, ok := botCommands[strings.ToLower(fields[0])]
	if !ok {
		return commandResult{text: "Command not found.", hidden: true}
	}
	return cmd.fn(st, sender, fields[1:])
}

func cmdHelp(_ *State, _ *Session, _ []string) commandResult {
	var b strings.Builder
	b.WriteString("Available commands:")
	for _, name := range [...]string{"help", "roll", "online", "stats"} {
		c := botCommands[name]
		fmt.Fprintf(&b, "\n%s - %s", c.usage, c.brief)
	}
	return commandResult{text: b.String(), hidden: true}
}

func cmdRoll(_ *State, sender *Session, args []string) commandResult {
	max := 100
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
			max = v
		}
	}
	n := rand.Intn(max) + 1
	return commandResult{
		text: fmt.Sprintf("%s rolls %d point(s)!", sender.Username(), n),
	}
}

func cmdOnline(st *State, _ *Session, _ []string) commandResult {
	// Subtract the bot itself.
	n := st.Registry.Count() - 1
	return commandResult{
		text:   fmt.Sprintf("There are currently %d user(s) online.", n),
		hidden: true,
	}
}

func cmdStats(_ *State, sender *Session, _ []string) commandResult {
	mode := sender.CurrentMode()
	stats := sender.CurrentStats()
	return commandResult{
		text: fmt.Sprintf(
			"%s on %s: %d ranked score, %.2f%% accuracy, %d plays, %dpp",
			sender.Username(), mode, stats.RankedScore, stats.Accuracy, stats.Playcount, stats.PP,
		),
		hidden: true,
	}
}

// LoginQuotes is the pool the login notification is drawn from.
var LoginQuotes = []string{
	"Welcome back to onecho!",
	"May all your plays be FCs.",
	"Remember to take breaks between maps.",
	"Click the circles. To the beat.",
	"Now with 100% more uleb128.",
}

// RandomQuote picks one login quote.
func RandomQuote() string {
	return LoginQuotes[rand.Intn(len(LoginQuotes))]
}
