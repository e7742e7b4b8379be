// Command mugcli plays a single game interactively: it shows the current
// state, quests and shop each turn and executes the chosen action.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/mugloar/mugomatic/internal/config"
	"github.com/mugloar/mugomatic/internal/game"
	"github.com/mugloar/mugomatic/internal/mugloar"
)

func main() {
	fs := flag.NewFlagSet("mugcli", flag.ExitOnError)
	resume := fs.String("r", "", "resume this game id instead of starting fresh")
	autoRep := fs.Bool("rep", false, "fetch reputation every turn (each fetch costs a turn)")
	fs.Parse(os.Args[1:])

	if err := run(*resume, *autoRep); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(resume string, autoRep bool) error {
	envCfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	client := mugloar.NewClient(mugloar.Config{
		BaseURL:    envCfg.BaseURL,
		MaxRetries: envCfg.MaxRetries,
		UserAgent:  envCfg.UserAgent,
		HTTPClient: &http.Client{Timeout: envCfg.HTTPTimeout},
	})

	ctx := context.Background()
	opts := game.Options{AutoReputation: autoRep}

	var sess *game.Session
	if resume != "" {
		sess = game.ResumeSession(client, resume, opts)
		fmt.Printf("resumed game %s; state is unknown until the first action\n", resume)
	} else {
		if sess, err = game.NewSession(ctx, client, opts); err != nil {
			return err
		}
		fmt.Printf("started game %s\n", sess.ID())
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		if sess.Dead() {
			fmt.Printf("game over: score %d after %d turns\n", sess.Score(), sess.Turn())
			return nil
		}
		printState(sess)

		fmt.Print("> ")
		if !in.Scan() {
			return in.Err()
		}
		cmd, arg := splitCommand(in.Text())

		var actErr error
		switch cmd {
		case "s":
			actErr = solve(ctx, sess, arg)
		case "b":
			actErr = buy(ctx, sess, arg)
		case "i":
			actErr = sess.QueryReputation(ctx)
		case "o":
			printOwned(sess)
		case "q":
			fmt.Printf("leaving game %s at score %d\n", sess.ID(), sess.Score())
			return nil
		case "h", "?":
			printHelp()
		default:
			fmt.Println("unknown command, try h")
		}
		if actErr != nil {
			if mugloar.IsGameOver(actErr) {
				fmt.Printf("game over: score %d after %d turns\n", sess.Score(), sess.Turn())
				return nil
			}
			return actErr
		}
	}
}

func splitCommand(line string) (string, string) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], fields[1]
	}
}

func solve(ctx context.Context, sess *game.Session, arg string) error {
	msgs := sess.Messages()
	n, err := pickIndex(arg, len(msgs))
	if err != nil {
		fmt.Println(err)
		return nil
	}
	ok, narrative, err := sess.SolveMessage(ctx, msgs[n])
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("solved: %s\n", narrative)
	} else {
		fmt.Printf("failed: %s\n", narrative)
	}
	return nil
}

func buy(ctx context.Context, sess *game.Session, arg string) error {
	items := sess.ShopItems()
	n, err := pickIndex(arg, len(items))
	if err != nil {
		fmt.Println(err)
		return nil
	}
	ok, err := sess.PurchaseItem(ctx, items[n])
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("bought %s\n", items[n].Name)
	} else {
		fmt.Println("purchase refused")
	}
	return nil
}

func pickIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("pick a number between 1 and %d", n)
	}
	return i - 1, nil
}

func printState(sess *game.Session) {
	fmt.Printf("\n[%s] turn %d | lives %d | gold %d | level %d | score %d | rep %.1f/%.1f/%.1f\n",
		sess.ID(), sess.Turn(), sess.Lives(), sess.Gold(), sess.Level(), sess.Score(),
		sess.RepPeople(), sess.RepState(), sess.RepUnderworld())

	fmt.Println("quests:")
	for i, m := range sess.Messages() {
		fmt.Printf("  %2d. [%s] %s (reward %d, expires in %d)\n", i+1, m.Probability, m.Text, m.Reward, m.ExpiresIn)
	}
	fmt.Println("shop:")
	for i, it := range sess.ShopItems() {
		fmt.Printf("  %2d. %s (%d gold)\n", i+1, it.Name, it.Cost)
	}
}

func printOwned(sess *game.Session) {
	owned := sess.OwnedList()
	if len(owned) == 0 {
		fmt.Println("nothing owned yet")
		return
	}
	for _, o := range owned {
		fmt.Printf("  %dx %s\n", o.Count, o.Item.Name)
	}
}

func printHelp() {
	fmt.Println("  s <n>  solve quest n")
	fmt.Println("  b <n>  buy shop item n")
	fmt.Println("  i      investigate reputation (costs a turn)")
	fmt.Println("  o      list owned items")
	fmt.Println("  q      quit")
}
