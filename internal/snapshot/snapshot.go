package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"churchportal/internal/models"
	"churchportal/internal/service"
)

// Version is written into every snapshot file
const Version = "1.0"

// songFetchLimit bounds concurrent per-choir song requests
const songFetchLimit = 4

// Snapshot is a point-in-time copy of every resource the backend exposes
type Snapshot struct {
	Version     string                     `json:"version"`
	TakenAt     time.Time                  `json:"taken_at"`
	Source      string                     `json:"source"`
	Members     []models.Member            `json:"members"`
	Attendance  []models.SabbathAttendance `json:"attendance"`
	Committee   []models.CommitteeMeeting  `json:"committee_meetings"`
	Choirs      []models.Choir             `json:"choirs"`
	Songs       []models.ChoirSong         `json:"choir_songs"`
	Blog        []models.Blog              `json:"blog_posts"`
	Gallery     []models.GalleryItem       `json:"gallery_items"`
	Testimonies []models.Testimony         `json:"testimonies"`
	Resources   []models.Resource          `json:"resources"`
}

// Count returns the total number of records held
func (s *Snapshot) Count() int {
	return len(s.Members) + len(s.Attendance) + len(s.Committee) + len(s.Choirs) + len(s.Songs) +
		len(s.Blog) + len(s.Gallery) + len(s.Testimonies) + len(s.Resources)
}

// Exporter takes snapshots through the resource services
type Exporter struct {
	services *service.Services
	source   string
	logger   *slog.Logger
	now      func() time.Time
}

// NewExporter creates an exporter; source is recorded in each snapshot
func NewExporter(services *service.Services, source string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{services: services, source: source, logger: logger, now: time.Now}
}

// Take fetches every resource concurrently. The first failure cancels the rest.
func (e *Exporter) Take(ctx context.Context) (*Snapshot, error) {
	e.logger.Info("Starting snapshot", "source", e.source)

	snap := &Snapshot{Version: Version, TakenAt: e.now().UTC(), Source: e.source}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Members, err = e.services.Members.GetAll(ctx, models.MemberFilter{})
		return wrap("members", err)
	})
	g.Go(func() (err error) {
		snap.Attendance, err = e.services.Attendance.GetAll(ctx, models.AttendanceFilter{})
		return wrap("attendance", err)
	})
	g.Go(func() (err error) {
		snap.Committee, err = e.services.Committee.GetAll(ctx)
		return wrap("committee meetings", err)
	})
	g.Go(func() (err error) {
		snap.Blog, err = e.services.Blog.GetAll(ctx, models.BlogFilter{})
		return wrap("blog posts", err)
	})
	g.Go(func() (err error) {
		snap.Gallery, err = e.services.Gallery.GetAll(ctx, models.GalleryFilter{})
		return wrap("gallery items", err)
	})
	g.Go(func() (err error) {
		snap.Testimonies, err = e.services.Testimonies.GetAll(ctx, models.TestimonyFilter{})
		return wrap("testimonies", err)
	})
	g.Go(func() (err error) {
		snap.Resources, err = e.services.Resources.GetAll(ctx, models.ResourceFilter{})
		return wrap("resources", err)
	})
	g.Go(func() error {
		choirs, err := e.services.Choirs.GetAll(ctx)
		if err != nil {
			return wrap("choirs", err)
		}
		snap.Choirs = choirs
		songs, err := e.songs(ctx, choirs)
		snap.Songs = songs
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Info("Snapshot complete", "records", snap.Count())
	return snap, nil
}

// songs fetches the songs of each choir, keeping choir order in the result
func (e *Exporter) songs(ctx context.Context, choirs []models.Choir) ([]models.ChoirSong, error) {
	perChoir := make([][]models.ChoirSong, len(choirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(songFetchLimit)
	for i, choir := range choirs {
		g.Go(func() error {
			songs, err := e.services.Choirs.GetSongs(ctx, choir.ID)
			if err != nil {
				return wrap(fmt.Sprintf("songs of choir %s", choir.ID), err)
			}
			perChoir[i] = songs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.ChoirSong
	for _, songs := range perChoir {
		all = append(all, songs...)
	}
	return all, nil
}

// Export takes a snapshot and writes it to outputPath
func (e *Exporter) Export(ctx context.Context, outputPath string) (*Snapshot, error) {
	snap, err := e.Take(ctx)
	if err != nil {
		return nil, err
	}
	if err := WriteFile(outputPath, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Write encodes snap as indented JSON
func Write(w io.Writer, snap *Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// WriteFile writes snap to path, creating parent directories as needed
func WriteFile(path string, snap *Snapshot) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, snap); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Read decodes a snapshot previously produced by Write
func Read(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Version == "" {
		return nil, fmt.Errorf("snapshot has no version")
	}
	return &snap, nil
}

// ReadFile opens and decodes the snapshot at path
func ReadFile(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()
	return Read(file)
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to fetch %s: %w", what, err)
}
