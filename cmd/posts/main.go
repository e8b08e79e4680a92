// Command posts lists, deletes or clears the posts held by the configured
// storage backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/debemdeboas/blog-wizard/internal/config"
	"github.com/debemdeboas/blog-wizard/internal/logger"
	"github.com/debemdeboas/blog-wizard/internal/model"
	"github.com/debemdeboas/blog-wizard/internal/repository"
	"github.com/debemdeboas/blog-wizard/internal/storage"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	summaryStyle  = lipgloss.NewStyle().PaddingLeft(2)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	category := flag.String("category", "", "Only list posts in this category")
	deleteID := flag.String("delete", "", "Delete the post with this id")
	clearAll := flag.Bool("clear", false, "Delete every post")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	repository.SetLogger(log)

	backend, err := storage.Open(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening storage backend")
	}

	store := repository.NewPostStore(backend,
		repository.WithKey(cfg.Storage.Key),
		repository.WithWriteTimeout(cfg.Storage.WriteTimeout),
	)
	defer store.Close()

	if !store.IsDurable() {
		fmt.Println(warnStyle.Render("Storage backend " + store.BackendName() + " is not durable, nothing to show"))
		return
	}

	switch {
	case *clearAll:
		n := store.Len()
		store.ClearAll()
		fmt.Printf("Deleted %d posts\n", n)
	case *deleteID != "":
		if !store.Delete(model.PostID(*deleteID)) {
			fmt.Fprintf(os.Stderr, "Post %s not found\n", *deleteID)
			os.Exit(1)
		}
		fmt.Printf("Deleted %s\n", *deleteID)
	default:
		posts := repository.SortNewestFirst(store.List())
		if *category != "" {
			c, err := model.ParseCategory(*category)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(2)
			}
			posts = repository.FilterByCategory(posts, c)
		}
		renderPosts(os.Stdout, posts)
	}
}

func renderPosts(w io.Writer, posts []model.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, metaStyle.Render("No posts yet"))
		return
	}

	for _, p := range posts {
		fmt.Fprintln(w, titleStyle.Render(p.Title)+" "+categoryStyle.Render("["+string(p.Category)+"]"))
		fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("%s · by %s · %s · %d words",
			p.ID, p.Author, p.CreatedAt.Local().Format("2006-01-02 15:04"), len(strings.Fields(p.Content)))))
		fmt.Fprintln(w, summaryStyle.Render(p.Summary))
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("Total: %d", len(posts))))
}
