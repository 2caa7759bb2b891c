package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/advocase-dev/advocase-store/pkg/schema"
	"github.com/advocase-dev/advocase-store/pkg/sdk"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	addr := os.Getenv("ADVOCASE_ADDR")
	if addr == "" {
		addr = "http://localhost:8080"
	}

	client := sdk.New(addr)
	if token := os.Getenv("ADVOCASE_TOKEN"); token != "" {
		client.SetToken(token)
	}

	ctx := context.Background()
	command := strings.ToUpper(os.Args[1])
	args := os.Args[2:]

	switch command {
	case "SIGNIN":
		if len(args) < 2 {
			log.Fatal("Usage: advocase SIGNIN <email> <password>")
		}
		user, err := client.SignIn(ctx, args[0], args[1])
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Signed in as %s (%s)\n", user.Name, user.Role)
		fmt.Printf("export ADVOCASE_TOKEN=%s\n", client.Token())

	case "SIGNUP":
		if len(args) < 3 {
			log.Fatal("Usage: advocase SIGNUP <email> <name> <parent|advocate|admin>")
		}
		user, err := client.SignUp(ctx, args[0], args[1], schema.Role(args[2]))
		if err != nil {
			log.Fatal(err)
		}
		printJSON(user)
		fmt.Println("Account created; an admin must approve it before sign-in.")

	case "APPROVE":
		if len(args) < 1 {
			log.Fatal("Usage: advocase APPROVE <userID>")
		}
		user, err := client.ApproveUser(ctx, args[0])
		if err != nil {
			log.Fatal(err)
		}
		printJSON(user)

	case "CHILDREN":
		children, err := client.Children(ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(children)

	case "ADD_CHILD":
		if len(args) < 1 {
			log.Fatal("Usage: advocase ADD_CHILD <name> [dateOfBirth] [grade] [school]")
		}
		get := func(i int) string {
			if i < len(args) {
				return args[i]
			}
			return ""
		}
		child, err := client.AddChild(ctx, args[0], get(1), get(2), get(3), "")
		if err != nil {
			log.Fatal(err)
		}
		printJSON(child)

	case "IEPS":
		ieps, err := client.IEPs(ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(ieps)

	case "UPLOAD_IEP":
		if len(args) < 2 {
			log.Fatal("Usage: advocase UPLOAD_IEP <childID> <fileName> [fileURL]")
		}
		fileURL := ""
		if len(args) > 2 {
			fileURL = args[2]
		}
		iep, err := client.UploadIEP(ctx, args[0], args[1], fileURL, "")
		if err != nil {
			log.Fatal(err)
		}
		printJSON(iep)

	case "ANALYZE":
		if len(args) < 1 {
			log.Fatal("Usage: advocase ANALYZE <iepID>")
		}
		summary, err := client.AnalyzeIEP(ctx, args[0])
		if err != nil {
			log.Fatal(err)
		}
		printJSON(summary)

	case "QUESTIONS":
		if len(args) < 1 {
			log.Fatal("Usage: advocase QUESTIONS <iepID>")
		}
		questions, err := client.CoachingQuestions(ctx, args[0])
		if err != nil {
			log.Fatal(err)
		}
		for i, q := range questions {
			fmt.Printf("%d. %s\n", i+1, q)
		}

	case "CASES":
		cases, err := client.Cases(ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(cases)

	case "CREATE_CASE":
		if len(args) < 2 {
			log.Fatal("Usage: advocase CREATE_CASE <childID> <helpType> [iepID]")
		}
		iepID := ""
		if len(args) > 2 {
			iepID = args[2]
		}
		created, err := client.CreateCase(ctx, args[0], iepID, args[1])
		if err != nil {
			log.Fatal(err)
		}
		printJSON(created)

	case "CONVERSATIONS":
		convs, err := client.Conversations(ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(convs)

	case "MESSAGES":
		if len(args) < 1 {
			log.Fatal("Usage: advocase MESSAGES <otherUserID>")
		}
		msgs, err := client.Conversation(ctx, args[0])
		if err != nil {
			log.Fatal(err)
		}
		printJSON(msgs)

	case "SEND":
		if len(args) < 2 {
			log.Fatal("Usage: advocase SEND <receiverID> <message...>")
		}
		msg, err := client.SendMessage(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			log.Fatal(err)
		}
		printJSON(msg)

	case "ADVOCATES":
		advocates, err := client.Advocates(ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(advocates)

	case "SLOTS":
		if len(args) < 1 {
			log.Fatal("Usage: advocase SLOTS <advocateID>")
		}
		slots, err := client.AvailableSlots(ctx, args[0])
		if err != nil {
			log.Fatal(err)
		}
		printJSON(slots)

	case "SCHEDULE":
		if len(args) < 2 {
			log.Fatal("Usage: advocase SCHEDULE <slotID> <video|phone> [notes...]")
		}
		appt, err := client.Schedule(ctx, args[0], schema.AppointmentType(args[1]), strings.Join(args[2:], " "))
		if err != nil {
			log.Fatal(err)
		}
		printJSON(appt)

	case "APPOINTMENTS":
		appts, err := client.Appointments(ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(appts)

	case "CANCEL":
		if len(args) < 1 {
			log.Fatal("Usage: advocase CANCEL <appointmentID>")
		}
		if err := client.CancelAppointment(ctx, args[0]); err != nil {
			log.Fatal(err)
		}
		fmt.Println("OK")

	case "REQUEST_MATCH":
		if len(args) < 2 {
			log.Fatal("Usage: advocase REQUEST_MATCH <childID> <helpType...>")
		}
		entry, err := client.RequestMatch(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			log.Fatal(err)
		}
		printJSON(entry)

	case "AUDIT":
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				log.Fatal("Usage: advocase AUDIT [recentN]")
			}
			entries, err := client.RecentAudit(ctx, n)
			if err != nil {
				log.Fatal(err)
			}
			printJSON(entries)
			return
		}
		entries, err := client.AuditLog(ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(entries)

	case "STATS":
		stats, err := client.SecurityStats(ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(stats)

	case "FEEDBACK":
		if len(args) < 3 {
			log.Fatal("Usage: advocase FEEDBACK <bug|feature|general|ui|performance> <title> <description...>")
		}
		fb, err := client.SubmitFeedback(ctx, schema.FeedbackType(args[0]), args[1], strings.Join(args[2:], " "), 0)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(fb)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("AdvoCase CLI - Interface for advocase-store")
	fmt.Println("\nUsage:")
	fmt.Println("  advocase SIGNIN <email> <password>")
	fmt.Println("  advocase SIGNUP <email> <name> <parent|advocate|admin>")
	fmt.Println("  advocase APPROVE <userID>")
	fmt.Println("  advocase CHILDREN | ADD_CHILD <name> [dob] [grade] [school]")
	fmt.Println("  advocase IEPS | UPLOAD_IEP <childID> <fileName> [fileURL]")
	fmt.Println("  advocase ANALYZE <iepID> | QUESTIONS <iepID>")
	fmt.Println("  advocase CASES | CREATE_CASE <childID> <helpType> [iepID]")
	fmt.Println("  advocase CONVERSATIONS | MESSAGES <userID> | SEND <userID> <text...>")
	fmt.Println("  advocase ADVOCATES | SLOTS <advocateID>")
	fmt.Println("  advocase SCHEDULE <slotID> <video|phone> [notes...]")
	fmt.Println("  advocase APPOINTMENTS | CANCEL <appointmentID>")
	fmt.Println("  advocase REQUEST_MATCH <childID> <helpType...>")
	fmt.Println("  advocase AUDIT [recentN] | STATS")
	fmt.Println("  advocase FEEDBACK <type> <title> <description...>")
	fmt.Println("\nEnvironment Variables:")
	fmt.Println("  ADVOCASE_ADDR    Daemon base URL (default: http://localhost:8080)")
	fmt.Println("  ADVOCASE_TOKEN   Bearer token from SIGNIN")
}

func printJSON(v any) {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(bytes))
}
