package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/term"

	"churchportal/internal/hooks"
	"churchportal/internal/models"
)

var errUsage = errors.New("usage")

type app struct {
	client *hooks.Client
	out    io.Writer
	in     io.Reader
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	rest := args[1:]

	switch args[0] {
	case "whoami":
		return a.whoami()
	case "members":
		return a.members(ctx, rest)
	case "attendance":
		return a.attendance(ctx, rest)
	case "testimonies":
		return a.testimonies(ctx, rest)
	case "songs":
		return a.songs(ctx, rest)
	case "gallery":
		return a.gallery(ctx, rest)
	case "blog":
		return a.blog(ctx, rest)
	case "password":
		return a.password(ctx, rest)
	}
	return errUsage
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *app) whoami() error {
	s := a.client.Session()
	if s.IsGuest() {
		fmt.Fprintln(a.out, "Not signed in (guest)")
	} else {
		fmt.Fprintf(a.out, "%s (%s)", s.Name, s.Role.DisplayName())
		if s.Family != "" {
			fmt.Fprintf(a.out, ", %s family", s.Family)
		}
		fmt.Fprintln(a.out)
	}
	for _, d := range a.client.Dashboards() {
		fmt.Fprintln(a.out, "  dashboard:", d)
	}
	return nil
}

func (a *app) members(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "list":
		fs := a.flags("members list")
		family := fs.String("family", "", "Filter by family")
		level := fs.String("level", "", "Filter by level (Y1, Y2, Y3)")
		status := fs.String("status", "", "Filter by status")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		members, err := a.client.Members.List(models.MemberFilter{
			Family: models.Family(*family),
			Level:  models.Level(*level),
			Status: models.MemberStatus(*status),
		}).Get(ctx)
		if err != nil {
			return err
		}
		a.printMembers(members)
		return nil

	case "search":
		fs := a.flags("members search")
		live := fs.Bool("live", false, "Read search terms from stdin, one per line")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *live {
			return a.liveSearch(ctx)
		}
		term := strings.Join(fs.Args(), " ")
		q := a.client.Members.Search(term)
		if !q.Enabled() {
			return fmt.Errorf("search term %q is too short", term)
		}
		members, err := q.Get(ctx)
		if err != nil {
			return err
		}
		a.printMembers(members)
		return nil

	case "stats":
		stats, err := a.client.Members.Stats().Get(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Total members: %d\n", stats.Total)
		printCounts(a.out, "Family", stats.ByFamily)
		printCounts(a.out, "Level", stats.ByLevel)
		printCounts(a.out, "Status", stats.ByStatus)
		return nil
	}
	return errUsage
}

func (a *app) liveSearch(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	terms := make(chan string)
	go func() {
		defer close(terms)
		scanner := bufio.NewScanner(a.in)
		for scanner.Scan() {
			select {
			case terms <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for r := range a.client.Members.LiveSearch(ctx, terms) {
		switch {
		case r.Err != nil:
			fmt.Fprintln(a.out, "search failed:", r.Err)
		case !r.HasData:
			fmt.Fprintln(a.out, "(keep typing)")
		default:
			a.printMembers(r.Data)
		}
	}
	return ctx.Err()
}

func (a *app) printMembers(members []models.Member) {
	if len(members) == 0 {
		fmt.Fprintln(a.out, "No members found")
		return
	}
	for _, m := range members {
		fmt.Fprintf(a.out, "%-24s %-28s %-20s %s\n", m.Name, m.Email, m.Family, m.Level)
	}
}

func printCounts[K ~string](w io.Writer, title string, counts map[K]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s %-20s %d\n", title, k+":", counts[K(k)])
	}
}

func (a *app) attendance(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "stats" {
		return errUsage
	}
	fs := a.flags("attendance stats")
	family := fs.String("family", "", "Restrict to one family")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	stats, err := a.client.Attendance.Stats(models.Family(*family)).Get(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Records: %d  Present: %d  Absent: %d  Rate: %.1f%%\n",
		stats.TotalRecords, stats.PresentCount, stats.AbsentCount, stats.AttendanceRate)
	return nil
}

func (a *app) testimonies(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "pending", "approved":
		q := a.client.Testimonies.Approved()
		if args[0] == "pending" {
			q = a.client.Testimonies.Pending()
		}
		items, err := q.Get(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(a.out, "No testimonies")
		}
		for _, t := range items {
			fmt.Fprintf(a.out, "%s  %-32s %s\n", t.ID, t.Title, t.Author)
		}
		return nil

	case "approve":
		if len(args) != 2 {
			return errUsage
		}
		t, err := a.client.Testimonies.Approve().MutateAsync(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Approved %q\n", t.Title)
		return nil

	case "submit":
		fs := a.flags("testimonies submit")
		var in models.CreateTestimonyInput
		fs.StringVar(&in.Title, "title", "", "Title")
		fs.StringVar(&in.Author, "author", "", "Author name")
		fs.StringVar(&in.Content, "content", "", "Testimony text")
		fs.StringVar(&in.AuthorEmail, "email", "", "Author email")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		t, err := a.client.Testimonies.Submit().MutateAsync(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Submitted %s; it will appear once approved\n", t.ID)
		return nil
	}
	return errUsage
}

func (a *app) songs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "list":
		if len(args) != 2 {
			return errUsage
		}
		songs, err := a.client.Choirs.Songs(args[1]).Get(ctx)
		if err != nil {
			return err
		}
		if len(songs) == 0 {
			fmt.Fprintln(a.out, "No songs")
		}
		for _, s := range songs {
			audio := ""
			if s.AudioURL != "" {
				audio = "  [audio]"
			}
			fmt.Fprintf(a.out, "%s  %s%s\n", s.ID, s.Title, audio)
		}
		return nil

	case "upload":
		fs := a.flags("songs upload")
		var in models.CreateChoirSongInput
		fs.StringVar(&in.ChoirID, "choir", "", "Choir id")
		fs.StringVar(&in.Title, "title", "", "Song title")
		fs.StringVar(&in.Lyrics, "lyrics", "", "Lyrics")
		audioPath := fs.String("audio", "", "Audio file to attach")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		if in.ChoirID != "" {
			choir, err := a.client.Choirs.Get(in.ChoirID).Get(ctx)
			if err != nil {
				return err
			}
			in.ChoirName = choir.Name
		}
		in.UploadedBy = a.uploader()

		if *audioPath != "" {
			f, upload, err := openUpload(*audioPath)
			if err != nil {
				return err
			}
			defer f.Close()
			in.Audio = upload
		}

		song, err := a.client.Choirs.CreateSong().MutateAsync(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Uploaded %q (%s)\n", song.Title, song.ID)
		return nil
	}
	return errUsage
}

func (a *app) gallery(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "upload" {
		return errUsage
	}

	fs := a.flags("gallery upload")
	var in models.CreateGalleryItemInput
	fs.StringVar(&in.Title, "title", "", "Title")
	fs.StringVar(&in.Description, "description", "", "Description")
	mediaType := fs.String("type", string(models.MediaImage), "Media type (image or video)")
	mediaPath := fs.String("file", "", "Media file")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *mediaPath == "" {
		return errors.New("-file is required")
	}
	in.MediaType = models.MediaType(*mediaType)
	in.UploadedBy = a.uploader()

	f, upload, err := openUpload(*mediaPath)
	if err != nil {
		return err
	}
	defer f.Close()
	in.Media = upload

	item, err := a.client.Gallery.Create().MutateAsync(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %q to %s\n", item.Title, item.MediaURL)
	return nil
}

func (a *app) blog(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return errUsage
	}
	fs := a.flags("blog list")
	category := fs.String("category", "", "Filter by category")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	posts, err := a.client.Blog.List(models.BlogFilter{Category: models.BlogCategory(*category)}).Get(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts")
	}
	for _, p := range posts {
		fmt.Fprintf(a.out, "%s  [%s] %s by %s\n", p.CreatedAt.Format("2006-01-02"), p.Category, p.Title, p.Author)
	}
	return nil
}

func (a *app) password(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "forgot":
		if len(args) != 2 {
			return errUsage
		}
		resp, err := a.client.Passwords.Forgot().MutateAsync(ctx, models.ForgotPasswordInput{Email: args[1]})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, resp.Message)
		return nil

	case "reset":
		fs := a.flags("password reset")
		token := fs.String("token", "", "Reset token from the email")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		password, err := a.readPassword()
		if err != nil {
			return err
		}
		resp, err := a.client.Passwords.Reset().MutateAsync(ctx, models.ResetPasswordInput{
			Token:       *token,
			NewPassword: password,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, resp.Message)
		return nil
	}
	return errUsage
}

// readPassword prompts twice without echo on a terminal, otherwise reads one line
func (a *app) readPassword() (string, error) {
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.out, "New password: ")
		first, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", err
		}
		fmt.Fprint(a.out, "Confirm password: ")
		second, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", err
		}
		if string(first) != string(second) {
			return "", errors.New("passwords do not match")
		}
		return string(first), nil
	}

	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) uploader() string {
	if s := a.client.Session(); !s.IsGuest() {
		return s.MemberID
	}
	return ""
}

func openUpload(path string) (*os.File, *models.FileUpload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, &models.FileUpload{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Content:     f,
	}, nil
}
