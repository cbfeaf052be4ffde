package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/busops/transit-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedFileType = errors.New("invalid file type: only jpg, jpeg, png and pdf allowed")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrFileNotFound        = errors.New("file not found")
)

var receiptContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

type FileService interface {
	// UploadTransferReceipt stores a bank-transfer receipt (image or PDF) and returns its path
	UploadTransferReceipt(ctx context.Context, bookingID int64, file io.Reader, filename string) (string, error)

	OpenFile(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
}

type fileServiceImpl struct {
	storage        storage.FileStorage
	maxReceiptSize int64
}

func NewFileService(storage storage.FileStorage, maxReceiptSize int64) FileService {
	return &fileServiceImpl{
		storage:        storage,
		maxReceiptSize: maxReceiptSize,
	}
}

// UploadTransferReceipt validates extension, sniffed content type and size
// before writing anything.
func (s *fileServiceImpl) UploadTransferReceipt(ctx context.Context, bookingID int64, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := receiptContentTypes[ext]
	if !ok {
		return "", ErrUnsupportedFileType
	}

	// Read one byte past the limit so oversize files are detected without buffering them whole.
	limited := io.LimitReader(file, s.maxReceiptSize+1)
	buf := bufio.NewReaderSize(limited, 512)
	head, err := buf.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("failed to read receipt: %w", err)
	}
	if len(head) == 0 {
		return "", ErrUnsupportedFileType
	}
	sniffed := http.DetectContentType(head)
	if !strings.HasPrefix(sniffed, contentType) {
		return "", ErrUnsupportedFileType
	}

	counter := &countingReader{r: buf}
	path := filepath.Join("receipts", fmt.Sprintf("%d", bookingID), uuid.New().String()+ext)

	uploadedPath, err := s.storage.Upload(ctx, counter, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}

	if counter.n > s.maxReceiptSize {
		_ = s.storage.Delete(ctx, uploadedPath)
		return "", ErrFileTooLarge
	}

	return uploadedPath, nil
}

func (s *fileServiceImpl) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return s.storage.Download(ctx, path)
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
