package compilation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/crytic/soldrive/compilation/cache"
	"github.com/crytic/soldrive/logging"
	"github.com/crytic/soldrive/logging/colors"
	"github.com/pkg/errors"
)

// ComputeInputHash computes a SHA-256 hash of a compiler input document together with the version of the compiler it
// is given to. Identical hashes describe identical compiler outputs.
func ComputeInputHash(compilerVersion string, input []byte) string {
	hasher := sha256.New()
	hasher.Write([]byte(compilerVersion))
	// Separate the version from the input so that no two pairs hash alike
	hasher.Write([]byte{0})
	hasher.Write(input)
	return hex.EncodeToString(hasher.Sum(nil))
}

// OutputCache is a platforms.OutputCache persisting compiler outputs on disk. Cache failures are logged and never fail
// a compilation.
type OutputCache struct {
	store  *cache.OutputCache
	logger *logging.Logger
}

// OpenOutputCache opens the output cache kept in directory.
func OpenOutputCache(directory string) (*OutputCache, error) {
	store, err := cache.Open(directory)
	if err != nil {
		return nil, err
	}
	return &OutputCache{
		store:  store,
		logger: logging.GlobalLogger.NewSubLogger("module", logging.CACHE_SERVICE),
	}, nil
}

// Lookup implements platforms.OutputCache.
func (c *OutputCache) Lookup(compilerVersion string, input []byte) ([]byte, bool) {
	entry, err := c.store.Get(ComputeInputHash(compilerVersion, input))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn("Failed to read the compilation cache", err)
		}
		c.logger.Debug(colors.Bold, "cache: ", colors.Reset, "compiling a ", colors.GreenBold, "new", colors.Reset, " set of sources")
		return nil, false
	}

	c.logger.Info(
		colors.Bold, "cache: ", colors.Reset,
		"reusing the ", colors.YellowBold, "same", colors.Reset,
		" compiler output as previously (stored ", formatDuration(time.Since(entry.Timestamp)), " ago)",
	)
	return entry.Output, true
}

// Store implements platforms.OutputCache.
func (c *OutputCache) Store(compilerVersion string, input []byte, output []byte) {
	if err := c.store.Put(ComputeInputHash(compilerVersion, input), output); err != nil {
		c.logger.Warn("Failed to save the compilation cache", err)
	}
}

// Close releases the cache.
func (c *OutputCache) Close() error {
	return c.store.Close()
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
