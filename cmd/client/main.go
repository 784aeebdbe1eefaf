package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"tactical-link/auth"
	"tactical-link/domain"
	"tactical-link/infrastructure/grpc/client"
	"tactical-link/infrastructure/grpc/rpc"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

type Config struct {
	ServerAddr  string        `env:"SERVER_ADDR,default=localhost:50051"`
	Token       string        `env:"TACTICAL_TOKEN"`
	JWTSecret   string        `env:"JWT_SECRET"`
	CallTimeout time.Duration `env:"CALL_TIMEOUT,default=10s"`
}

const usage = `usage: client <command> [flags]

commands:
  provision <user>                      register a user and print its token
  operator-token <user>                 sign an operator token with JWT_SECRET
  send -to <user> [-ttl s] [-once] [-echo] <text>
  receive                               fetch and decrypt pending messages
  delete <message-id>                   destroy a message now
  score [user]                          threat score of the caller or of user
  sent                                  messages sent by the caller
  conversation <peer>                   live history with a peer
  threats [-limit n]                    latest threat records
  search [-user u] [-min score] [-limit n]`

func main() {
	if err := run(os.Args[1:]); err != nil {
		color.Error.Println(err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Println(usage)
		return nil
	}
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	command, args := args[0], args[1:]
	if command == "operator-token" {
		return operatorToken(config, args)
	}

	conn, err := client.Dial(config.ServerAddr)
	if err != nil {
		return err
	}
	c := client.NewMessageClient(conn, config.Token)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.CallTimeout)
	defer cancel()

	switch command {
	case "provision":
		return provision(ctx, c, args)
	case "send":
		return send(ctx, c, args)
	case "receive":
		return receive(ctx, c)
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("delete needs a message id")
		}
		if err := c.Delete(ctx, args[0]); err != nil {
			return err
		}
		color.Success.Printf("Message %s destroyed\n", args[0])
		return nil
	case "score":
		userID := ""
		if len(args) > 0 {
			userID = args[0]
		}
		return score(ctx, c, userID)
	case "sent":
		return sent(ctx, c)
	case "conversation":
		if len(args) != 1 {
			return fmt.Errorf("conversation needs a peer id")
		}
		return conversation(ctx, c, args[0])
	case "threats":
		fs := flag.NewFlagSet("threats", flag.ContinueOnError)
		limit := fs.Int("limit", 20, "maximum records")
		if err := fs.Parse(args); err != nil {
			return err
		}
		resp, err := c.ListThreats(ctx, *limit)
		if err != nil {
			return err
		}
		printThreats(resp.Records)
		return nil
	case "search":
		return search(ctx, c, args)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func provision(ctx context.Context, c *client.MessageClient, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provision needs a user id")
	}
	resp, err := c.Provision(ctx, args[0])
	if err != nil {
		return err
	}
	color.Success.Printf("User %s provisioned\n", resp.UserID)
	fmt.Printf("export TACTICAL_TOKEN=%s\n", resp.Token)
	return nil
}

func operatorToken(config Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("operator-token needs a user id")
	}
	if config.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required to sign an operator token")
	}
	tokens, err := auth.NewTokens(config.JWTSecret, 24*time.Hour)
	if err != nil {
		return err
	}
	token, err := tokens.Generate(args[0], []string{auth.RoleUser, auth.RoleOperator})
	if err != nil {
		return err
	}
	fmt.Printf("export TACTICAL_TOKEN=%s\n", token)
	return nil
}

func send(ctx context.Context, c *client.MessageClient, args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	to := fs.String("to", "", "recipient id")
	group := fs.String("group", "", "group id")
	ttl := fs.Int("ttl", 0, "seconds before destruction, 0 for none")
	once := fs.Bool("once", false, "destroy after the first read")
	echo := fs.Bool("echo", false, "keep a sender-side copy until destruction")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *to == "" || fs.NArg() == 0 {
		return fmt.Errorf("send needs -to and a text")
	}

	resp, err := c.Send(ctx, &rpc.SendRequest{
		RecipientID: *to,
		GroupID:     *group,
		Content:     []byte(strings.Join(fs.Args(), " ")),
		TTLSeconds:  *ttl,
		ReadOnce:    *once,
		KeepEcho:    *echo,
	})
	if err != nil {
		return err
	}
	color.Success.Printf("Sent %s\n", resp.MessageID)
	fmt.Printf("threat score %.1f (%s)\n", resp.ThreatScore, riskColor(resp.RiskLevel))
	return nil
}

func receive(ctx context.Context, c *client.MessageClient) error {
	resp, err := c.Receive(ctx)
	if err != nil {
		return err
	}
	if len(resp.Messages) == 0 && len(resp.Skipped) == 0 {
		color.Info.Println("No pending message")
		return nil
	}
	for _, m := range resp.Messages {
		flags := ""
		if m.ReadOnce {
			flags = color.Warn.Sprint(" [read-once, destroyed]")
		}
		fmt.Printf("%s %s from %s%s\n  %s\n",
			color.Gray.Sprint(m.CreatedAt.Local().Format(time.DateTime)),
			m.MessageID, color.Cyan.Sprint(m.SenderID), flags, string(m.Content))
	}
	for _, s := range resp.Skipped {
		color.Warn.Printf("Skipped %s from %s: %s\n", s.MessageID, s.SenderID, s.Reason)
	}
	return nil
}

func score(ctx context.Context, c *client.MessageClient, userID string) error {
	resp, err := c.Score(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %.1f %s (%d messages, %d recipients)\n",
		resp.UserID, resp.Score, riskColor(resp.RiskLevel), resp.MessagesInWindow, resp.DistinctRecipients)
	return nil
}

func sent(ctx context.Context, c *client.MessageClient) error {
	resp, err := c.ListSent(ctx)
	if err != nil {
		return err
	}
	for _, m := range resp.Messages {
		state := lo.Ternary(m.IsRead, "read", "unread")
		destruct := "never"
		if m.DestructAt != nil {
			destruct = m.DestructAt.Local().Format(time.DateTime)
		}
		fmt.Printf("%s to %s %s, destruct %s\n", m.MessageID, color.Cyan.Sprint(m.RecipientID), state, destruct)
		if len(m.Echo) > 0 {
			fmt.Printf("  %s\n", color.Gray.Sprint(string(m.Echo)))
		}
	}
	return nil
}

func conversation(ctx context.Context, c *client.MessageClient, peerID string) error {
	resp, err := c.Conversation(ctx, peerID)
	if err != nil {
		return err
	}
	if len(resp.Messages) == 0 {
		color.Info.Printf("No live message with %s\n", peerID)
		return nil
	}
	for _, m := range resp.Messages {
		from := lo.Ternary(m.Outgoing, color.Green.Sprint("me"), color.Cyan.Sprint(m.SenderID))
		content := string(m.Content)
		if m.Outgoing && len(m.Content) == 0 {
			content = color.Gray.Sprint("(no echo kept)")
		}
		fmt.Printf("%s %s %s\n  %s\n", color.Gray.Sprint(m.CreatedAt.Local().Format(time.DateTime)), m.MessageID, from, content)
	}
	return nil
}

func search(ctx context.Context, c *client.MessageClient, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	user := fs.String("user", "", "sender id")
	minScore := fs.Float64("min", 0, "minimum score")
	limit := fs.Int("limit", 20, "maximum records")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resp, err := c.SearchThreats(ctx, &rpc.SearchThreatsRequest{UserID: *user, MinScore: *minScore, Limit: *limit})
	if err != nil {
		return err
	}
	printThreats(resp.Records)
	return nil
}

func printThreats(records []rpc.ThreatRecord) {
	if len(records) == 0 {
		color.Info.Println("No threat record")
		return
	}
	for _, r := range records {
		fmt.Printf("%s %s %s %.1f %s (%d messages, %d recipients)\n",
			color.Gray.Sprint(r.At.Local().Format(time.DateTime)), r.ID, color.Cyan.Sprint(r.UserID),
			r.Score, color.Red.Sprint(r.Reason), r.MessageCount, r.DistinctRecipients)
	}
}

func riskColor(level string) string {
	switch level {
	case string(domain.RiskHigh):
		return color.Red.Sprint(level)
	case string(domain.RiskMedium):
		return color.Yellow.Sprint(level)
	default:
		return color.Green.Sprint(level)
	}
}
