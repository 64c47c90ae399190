package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"discorde/domain"
	"discorde/domain/command"
	"discorde/projection"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func (a *app) banner() {
	color.New(color.FgCyan, color.OpBold).Println("discorde")
	fmt.Println("Type 'help' for commands.")
}

func (a *app) help() {
	fmt.Print(`  register <username> <password>   create an account
  login <username> <password>      authenticate
  logout                           clear the session
  users                            list all users
  chats                            list your chats
  new <name> <member> [member...]  create a group chat
  dm <username>                    open a private chat with one user
  open <chat-id>                   enter a chat (/close to leave)
  status                           client counters
  quit                             exit
`)
}

// chatView renders history, then streams the live channel until the user
// types /close. The channel and every projection timer are torn down on the
// way out so nothing outlives the view.
func (a *app) chatView(ctx context.Context, chatID, me string) error {
	history, err := a.messages.History(ctx, chatID)
	if err != nil {
		return err
	}
	timeline := projection.NewTimeline(chatID, history)
	for _, e := range timeline.Entries() {
		a.printMessage(e.Message)
	}

	live, err := a.messages.OpenLive(ctx, chatID)
	if err != nil {
		return err
	}
	defer live.Close()

	// Local echoes join the live feed here so one goroutine owns the
	// timeline and the terminal; appends and frame redraws never interleave.
	echoes := make(chan domain.Message, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		incoming := live.Incoming()
		local := (<-chan domain.Message)(echoes)
		for incoming != nil || local != nil {
			select {
			case msg, ok := <-incoming:
				if !ok {
					if err := live.Err(); err != nil {
						color.Red.Printf("-- %v --\n", err)
					}
					incoming = nil
					continue
				}
				timeline.Append(msg)
				a.printMessage(msg)
			case msg, ok := <-local:
				if !ok {
					local = nil
					continue
				}
				timeline.Append(msg)
				a.printMessage(msg)
			}
		}
	}()

	color.Gray.Println("-- live, type a message or /close --")
	for a.in.Scan() {
		body := a.in.Text()
		if strings.TrimSpace(body) == "/close" {
			break
		}
		if strings.TrimSpace(body) == "" {
			continue
		}
		msg := domain.Message{Timestamp: time.Now(), Author: me, Body: body}
		if err := live.Send(domain.NewEnvelope(me, msg)); err != nil {
			color.Red.Printf("-- %v --\n", err)
			break
		}
		echoes <- msg
	}

	close(echoes)
	live.Close()
	<-done
	return nil
}

// printMessage writes one "author (age): body" line, playing the body's
// animation frames in place when the message carries a slash-command.
func (a *app) printMessage(m domain.Message) {
	age := projection.AgeOf(m.Timestamp, time.Now())
	prefix := fmt.Sprintf("%s %s: ",
		color.Cyan.Render(m.Author),
		color.Gray.Render("("+age+")"))

	anim := projection.NewAnimator(command.Parse(m.Body), a.config.TypeRevealInterval)
	defer anim.Stop()
	for frame := range anim.Frames() {
		fmt.Printf("\r%s%s", prefix, frame)
	}
	fmt.Println()
}

func renderUsers(users []domain.User) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Username", "Chats"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, u := range users {
		table.Append([]string{u.Username, fmt.Sprintf("%d", len(u.Chats))})
	}
	table.Render()
}

func renderChats(chats []domain.Chat) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Private", "Members"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, c := range chats {
		table.Append([]string{
			c.ID,
			c.Name,
			fmt.Sprintf("%t", c.Private),
			strings.Join(c.Members, ", "),
		})
	}
	table.Render()
}

func successln(format string, args ...any) {
	color.Green.Printf(format+"\n", args...)
}

func warnln(format string, args ...any) {
	color.Yellow.Printf(format+"\n", args...)
}

func errorln(format string, args ...any) {
	color.Red.Printf(format+"\n", args...)
}
