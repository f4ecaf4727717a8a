package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/timeutil"
)

// Disk is a Persistence backed by diskv. Bookings live under
// <base>/<year>/<month>/<id> as JSON documents.
type Disk struct {
	d        *diskv.Diskv
	basePath string
	now      func() time.Time
}

// NewDisk opens (or creates) a disk store rooted at basePath.
func NewDisk(basePath string) (*Disk, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &Disk{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
		}),
		basePath: basePath,
		now:      time.Now,
	}, nil
}

// read always goes to the file; other processes write the same tree.
func (p *Disk) read(key string) (*booking.Booking, error) {
	rc, err := p.d.ReadStream(key, true)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	val, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	b := &booking.Booking{}
	if err := json.Unmarshal(val, b); err != nil {
		return nil, err
	}
	b.ID = keyToPathTransform(key).FileName
	return b, nil
}

func (p *Disk) write(b *booking.Booking) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(b), data)
}

// find scans every key for id.
func (p *Disk) find(ctx context.Context, id string) (string, *booking.Booking, error) {
	for key := range p.d.Keys(ctx.Done()) {
		if !isBookingKey(key) || keyToPathTransform(key).FileName != id {
			continue
		}
		b, err := p.read(key)
		if err != nil {
			return "", nil, err
		}
		return key, b, nil
	}
	return "", nil, ErrNotFound
}

// FetchAll implements Persistence.
func (p *Disk) FetchAll(ctx context.Context) ([]*booking.Booking, error) {
	all := make([]*booking.Booking, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if !isBookingKey(key) {
			continue
		}
		b, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, b)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	SortBookings(all)
	return all, nil
}

// Insert implements Persistence.
func (p *Disk) Insert(_ context.Context, b *booking.Booking) (*booking.Booking, error) {
	if b == nil {
		return nil, errors.New("store: nil booking")
	}
	if _, err := timeutil.ParseDate(b.Date); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	row := b.Clone()
	row.ID = NewID()
	row.CreatedAt = p.now().UTC()
	if err := p.write(row); err != nil {
		return nil, fmt.Errorf("store: write booking: %w", err)
	}
	return row, nil
}

// Update implements Persistence. A date change moves the document to the
// new month directory.
func (p *Disk) Update(ctx context.Context, id string, patch booking.Patch) (*booking.Booking, error) {
	key, row, err := p.find(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(row)
	if _, err := timeutil.ParseDate(row.Date); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if err := p.write(row); err != nil {
		return nil, fmt.Errorf("store: write booking: %w", err)
	}
	if newKey := toKey(row); newKey != key {
		if err := p.d.Erase(key); err != nil {
			return nil, fmt.Errorf("store: erase previous location: %w", err)
		}
	}
	return row, nil
}

// Delete implements Persistence.
func (p *Disk) Delete(ctx context.Context, id string) error {
	key, _, err := p.find(ctx, id)
	if err != nil {
		return err
	}
	return p.d.Erase(key)
}

// Close implements Persistence.
func (p *Disk) Close() error {
	return nil
}

// BasePath returns the root directory of the store.
func (p *Disk) BasePath() string {
	return p.basePath
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// isBookingKey filters out files that are not under a year/month directory.
func isBookingKey(key string) bool {
	return len(keyToPathTransform(key).Path) == 2
}

// toKey makes `year-month-id`.
func toKey(b *booking.Booking) string {
	month := "0000-00"
	if d, err := timeutil.ParseDate(b.Date); err == nil {
		month = d.Format("2006-01")
	}
	return fmt.Sprintf("%s-%s", month, b.ID)
}
