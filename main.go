package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"lms/client"
	"lms/config"
	"lms/payment"
	"lms/player"
	"lms/session"
	"lms/store"
)

func main() {
	config.LoadConfig()

	courseID := flag.String("course", "", "course id to open")
	lessonID := flag.String("lesson", "", "lesson id to select")
	answers := flag.String("answers", "", "quiz answers as question:option pairs, e.g. 0:1,1:0,2:2")
	watch := flag.Int("watch", 0, "seconds watched of the selected video lesson")
	watchPct := flag.Float64("watch-pct", 0, "furthest watch percentage reached")
	complete := flag.Bool("complete", false, "mark the selected lesson complete")
	enroll := flag.Bool("enroll", false, "enroll in the course (runs checkout)")
	certificate := flag.Bool("certificate", false, "generate the completion certificate")
	flag.Parse()

	if *courseID == "" {
		log.Fatal("-course is required")
	}

	// Ctrl-C tears the whole flow down: polls stop, the payment
	// listener closes, the autosave flusher drains
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess := session.New(os.Getenv("LMS_TOKEN"))
	api := client.New(config.AppConfig.ApiBaseUrl, config.AppConfig.ApiTimeout)
	if sess.IsAuthenticated() {
		api.SetToken(sess.Token())
	}

	cache, err := store.Open(config.AppConfig.CacheDBName)
	if err != nil {
		log.Fatalf("Failed to open local cache: %v", err)
	}

	autosaver := store.NewAutosaver(cache, api)
	if err := autosaver.Start(config.AppConfig.AutosaveSpec); err != nil {
		log.Fatalf("Failed to start autosave flusher: %v", err)
	}
	defer autosaver.Stop()

	payments := payment.NewCallbackServer(config.AppConfig.PaymentCallbackPort, config.AppConfig.WebBaseUrl)
	checkout := player.NewCheckout(api, sess, payments, config.AppConfig.WebBaseUrl,
		config.AppConfig.PollAttempts, config.AppConfig.PollInterval)

	view := player.NewPlayer(api, cache, checkout)
	if err := view.Open(ctx, *courseID); err != nil {
		log.Fatalf("Failed to open course: %v", err)
	}
	printSummary(view, cache)

	if *enroll && !view.Enrolled() {
		result := view.Enroll(ctx, "/courses/"+*courseID)
		if result.Message != "" {
			fmt.Println(result.Message)
		}
		if path := player.NavigationFor(result); path != "" {
			fmt.Printf("-> %s\n", path)
		}
		if result.Outcome != player.OutcomeEnrolled {
			return
		}
	}

	if *lessonID == "" {
		return
	}
	if err := view.SelectLesson(*lessonID); err != nil {
		log.Fatalf("Failed to open lesson: %v", err)
	}
	lesson, _ := view.CurrentLesson()
	fmt.Printf("Playing %q (%s)\n", lesson.Title, lesson.Type)

	if *watch > 0 {
		if err := view.Watch(*watch, *watchPct); err != nil {
			log.Printf("Failed to record watch position: %v", err)
		}
	}

	if *answers != "" {
		attempt := view.Attempt()
		if attempt == nil {
			log.Fatal("-answers given but the selected lesson is not a quiz")
		}
		if err := applyAnswers(attempt, *answers); err != nil {
			log.Fatalf("Failed to answer quiz: %v", err)
		}
		score, err := attempt.Submit()
		if err != nil {
			log.Fatalf("Failed to submit quiz: %v", err)
		}
		fmt.Printf("Quiz score: %d%% (passed: %v)\n", score, attempt.Passed())
	}

	if *complete {
		result, err := view.CompleteCurrent(ctx)
		if err != nil {
			log.Fatalf("Failed to complete lesson: %v", err)
		}
		fmt.Printf("Progress: %.0f%%\n", result.Progress.ProgressPercentage)
		switch {
		case result.CourseDone:
			fmt.Println("Course complete!")
		case result.HasNext:
			fmt.Printf("Next up: %q\n", result.NextLesson.Title)
		default:
			fmt.Println("That was the last lesson.")
		}
	}

	if *certificate {
		cert, err := view.GenerateCertificate(ctx)
		if err != nil {
			log.Fatalf("Failed to generate certificate: %v", err)
		}
		fmt.Printf("Certificate %s ready: %s\n", cert.CertificateNumber, cert.CertificateURL)
	}
}

// printSummary renders the course header the way the web dashboard does
func printSummary(view *player.Player, cache *store.Store) {
	course := view.Course()
	fmt.Printf("%s — %d lessons", course.Title, course.TotalLessons())
	if view.Enrolled() {
		fmt.Printf(" — %.0f%% complete", view.Progress().ProgressPercentage)
	} else {
		fmt.Print(" — not enrolled")
	}
	if view.CertificateAvailable() {
		fmt.Print(" — certificate available")
	}
	fmt.Println()

	if seconds, err := cache.DailyWatchTime(time.Now()); err == nil && seconds > 0 {
		fmt.Printf("Watched today: %dm%ds\n", seconds/60, seconds%60)
	}
}

// applyAnswers parses "0:1,1:0" style pairs into the attempt
func applyAnswers(attempt *player.QuizAttempt, raw string) error {
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("bad answer pair %q", pair)
		}
		question, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("bad question index %q", parts[0])
		}
		option, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("bad option index %q", parts[1])
		}
		if err := attempt.Answer(question, option); err != nil {
			return err
		}
	}
	return nil
}
