package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fazletdinov/vidstream/internal/config"
	"github.com/fazletdinov/vidstream/internal/db"
	"github.com/fazletdinov/vidstream/internal/model"
)

const (
	defaultChunkSize = 1 << 20 // 1 MiB per range response
	chunkReadTimeout = 10 * time.Second

	videoContentType = "video/mp4"
	imageContentType = "image/jpeg"
)

type videoStore interface {
	CreateVideo(ctx context.Context, v *model.Video) (*model.Video, error)
	GetVideo(ctx context.Context, videoID int64) (*model.Video, error)
	ListVideos(ctx context.Context, limit, offset int) ([]model.Video, error)
	UpdateVideo(ctx context.Context, videoID int64, title, description *string) (*model.Video, error)
	DeleteVideo(ctx context.Context, videoID int64) (int64, error)
}

// Chunk is one bounded slice of a media file. End is the requested end
// offset, reported as-is in Content-Range even when the read was short
// at EOF; clients keep requesting subsequent ranges until done.
type Chunk struct {
	Data  []byte
	Start int64
	End   int64
	Total int64
}

// VideoService owns video metadata CRUD and the byte-range streaming
// path. Streaming is read-only; uploads go through the background writer.
type VideoService struct {
	store     videoStore
	writer    *UploadWriter
	mediaRoot string
	chunkSize int64
}

func NewVideoService(store videoStore, writer *UploadWriter, cfg config.MediaConfig) (*VideoService, error) {
	chunkSize := int64(defaultChunkSize)
	if cfg.ChunkSize != "" {
		parsed, err := strconv.ParseInt(cfg.ChunkSize, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%w: invalid MEDIA_CHUNK_SIZE", ErrMisconfigured)
		}
		chunkSize = parsed
	}
	if cfg.Root == "" {
		return nil, fmt.Errorf("%w: MEDIA_ROOT is required", ErrMisconfigured)
	}
	return &VideoService{
		store:     store,
		writer:    writer,
		mediaRoot: cfg.Root,
		chunkSize: chunkSize,
	}, nil
}

// Upload validates content types, hands the raw bytes to the background
// writer, and records the metadata row immediately.
func (s *VideoService) Upload(ctx context.Context, owner *model.User, title, description string, video []byte, videoType string, image []byte, imageType string) (*model.Video, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 50 || len(description) > 500 {
		return nil, ErrInvalidInput
	}
	if videoType != videoContentType || imageType != imageContentType {
		return nil, ErrInvalidInput
	}

	name := uuid.NewString()
	videoPath := filepath.Join(s.mediaRoot, "video", name+".mp4")
	imagePath := filepath.Join(s.mediaRoot, "image", name+".jpg")

	s.writer.Enqueue(videoPath, video)
	s.writer.Enqueue(imagePath, image)

	created, err := s.store.CreateVideo(ctx, &model.Video{
		Title:       title,
		Description: description,
		File:        videoPath,
		Image:       imagePath,
		OwnerID:     owner.ID,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *VideoService) Get(ctx context.Context, videoID int64) (*model.Video, error) {
	video, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return video, nil
}

func (s *VideoService) List(ctx context.Context, limit, offset int) ([]model.Video, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListVideos(ctx, limit, offset)
}

func (s *VideoService) Update(ctx context.Context, actor *model.User, videoID int64, req model.UpdateVideoRequest) (*model.Video, error) {
	if req.Title == nil && req.Description == nil {
		return nil, ErrEmptyUpdate
	}

	video, err := s.Get(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(actor, video) {
		return nil, ErrForbidden
	}

	updated, err := s.store.UpdateVideo(ctx, videoID, req.Title, req.Description)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the metadata row and best-effort removes the files.
func (s *VideoService) Delete(ctx context.Context, actor *model.User, videoID int64) (int64, error) {
	video, err := s.Get(ctx, videoID)
	if err != nil {
		return 0, err
	}
	if !s.canManage(actor, video) {
		return 0, ErrForbidden
	}

	id, err := s.store.DeleteVideo(ctx, videoID)
	if err != nil {
		if db.IsNotFound(err) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	for _, path := range []string{video.File, video.Image} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[Video] Failed to remove %s: %v", path, err)
		}
	}
	return id, nil
}

func (s *VideoService) canManage(actor *model.User, video *model.Video) bool {
	if actor == nil {
		return false
	}
	return actor.ID == video.OwnerID || actor.IsSuperuser || actor.Role == model.RoleModerator
}

// ServeChunk resolves the video, parses the Range header, and reads one
// bounded chunk. A missing end offset means start+chunkSize, not EOF.
func (s *VideoService) ServeChunk(ctx context.Context, videoID int64, rangeHeader string) (*Chunk, error) {
	video, err := s.Get(ctx, videoID)
	if err != nil {
		return nil, err
	}

	start, end, err := parseRange(rangeHeader, s.chunkSize)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(video.File)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	total := info.Size()

	data, err := readChunk(ctx, file, start, end, total)
	if err != nil {
		return nil, err
	}

	return &Chunk{Data: data, Start: start, End: end, Total: total}, nil
}

func (s *VideoService) ChunkSize() int64 {
	return s.chunkSize
}

// parseRange parses "bytes=<start>-<end>". End is optional and defaults
// to start+chunkSize so every response stays bounded.
func parseRange(header string, chunkSize int64) (start, end int64, err error) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, ErrInvalidRange
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, ErrInvalidRange
	}

	start, err = strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil || start < 0 {
		return 0, 0, ErrInvalidRange
	}

	if strings.TrimSpace(endStr) == "" {
		return start, start + chunkSize, nil
	}

	end, err = strconv.ParseInt(strings.TrimSpace(endStr), 10, 64)
	if err != nil || end < start {
		return 0, 0, ErrInvalidRange
	}
	return start, end, nil
}

// readChunk reads up to end-start bytes at start, short at EOF. The read
// is bounded: a stalled disk or a gone client abandons the chunk.
func readChunk(ctx context.Context, file *os.File, start, end, total int64) ([]byte, error) {
	length := end - start
	if remaining := total - start; remaining < length {
		length = remaining
	}
	if length <= 0 {
		return []byte{}, nil
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		buf := make([]byte, length)
		n, err := file.ReadAt(buf, start)
		if err != nil && err != io.EOF {
			done <- result{nil, err}
			return
		}
		done <- result{buf[:n], nil}
	}()

	select {
	case res := <-done:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(chunkReadTimeout):
		return nil, fmt.Errorf("chunk read timed out")
	}
}
