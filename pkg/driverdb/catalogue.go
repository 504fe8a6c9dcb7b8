package driverdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // pure-Go sqlite driver, no cgo

	"github.com/rs/zerolog"
)

// classDirs maps the sDDF repository's top-level per-class directory names
// to the Class enum used throughout the composer.
var classDirs = map[string]Class{
	"blk":     ClassBlock,
	"serial":  ClassSerial,
	"i2c":     ClassI2C,
	"network": ClassNet,
	"timer":   ClassTimer,
	"gpu":     ClassGPU,
	"fs":      ClassFS,
	"vmm":     ClassVMM,
}

// Catalogue is the driver descriptor cache built by Probe, scoped to one
// compose process. It is backed by an in-memory sqlite database — state
// that dies with the process, not persisted state the composer's Non-goals
// forbid.
type Catalogue struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// Probe scans repoPath for each known device-class directory and its
// subdirectories, attempting to read a config.json in each. A directory
// missing config.json is silently skipped; partial repositories are
// allowed and no warning is logged.
func Probe(repoPath string, log zerolog.Logger) (*Catalogue, error) {
	sqlDB, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("driverdb: open in-memory database: %w", err)
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        "file::memory:?cache=shared",
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("driverdb: open gorm database: %w", err)
	}

	if err := db.AutoMigrate(&Descriptor{}); err != nil {
		return nil, fmt.Errorf("driverdb: auto migrate: %w", err)
	}

	c := &Catalogue{db: db, logger: log}
	if err := c.scan(repoPath); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalogue) scan(repoPath string) error {
	for dirName, class := range classDirs {
		classPath := filepath.Join(repoPath, dirName)
		entries, err := os.ReadDir(classPath)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			driverPath := filepath.Join(classPath, entry.Name())
			if err := c.loadOne(driverPath, class); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Catalogue) loadOne(driverPath string, class Class) error {
	configPath := filepath.Join(driverPath, "config.json")
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil // missing config.json is not an error
	}

	var parsed struct {
		Compatible []string            `json:"compatible"`
		Regions    []RegionDescriptor  `json:"regions"`
		Irqs       []IrqDescriptor     `json:"irqs"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("driverdb: parse %s: %w", configPath, err)
	}

	desc := Descriptor{
		Class:      class,
		Compatible: parsed.Compatible,
		Regions:    parsed.Regions,
		Irqs:       parsed.Irqs,
		SourcePath: configPath,
	}
	if err := c.db.Create(&desc).Error; err != nil {
		return fmt.Errorf("driverdb: cache %s: %w", configPath, err)
	}
	c.logger.Debug().Str("path", configPath).Str("class", string(class)).Msg("loaded driver descriptor")
	return nil
}

// FindDriver returns the first cached descriptor of class whose compatible
// list intersects compatibles, in insertion (scan) order. ErrUnknownDevice
// if none match.
func (c *Catalogue) FindDriver(compatibles []string, class Class) (*Descriptor, error) {
	var candidates []Descriptor
	if err := c.db.Where("class = ?", class).Order("id asc").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("driverdb: query descriptors: %w", err)
	}

	wanted := make(map[string]struct{}, len(compatibles))
	for _, w := range compatibles {
		wanted[w] = struct{}{}
	}

	for i := range candidates {
		for _, have := range candidates[i].Compatible {
			if _, ok := wanted[have]; ok {
				return &candidates[i], nil
			}
		}
	}
	return nil, wrapDetail(ErrUnknownDevice, fmt.Sprintf("class=%s compatibles=%v", class, compatibles))
}

// Close releases the underlying in-memory database connection.
func (c *Catalogue) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
