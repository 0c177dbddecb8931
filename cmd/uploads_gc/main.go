// Command uploads_gc removes files from the upload directory that no product
// row references: leftovers from crashed requests or replaced images. With
// -watch it stays running and re-sweeps whenever the directory changes.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storeapi/models"

	"github.com/fsnotify/fsnotify"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dir := flag.String("dir", "uploads", "upload directory to sweep")
	watch := flag.Bool("watch", false, "keep watching the directory and re-sweep on changes")
	grace := flag.Duration("grace", 10*time.Minute, "leave files younger than this alone")
	dry := flag.Bool("dry", false, "report instead of deleting")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	sweep(db, *dir, *grace, *dry)
	if !*watch {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("watcher: %v", err)
	}
	defer watcher.Close()
	for _, d := range []string{*dir, filepath.Join(*dir, "thumbs")} {
		if err := watcher.Add(d); err != nil {
			log.Printf("watch %s: %v", d, err)
		}
	}

	// fs events arrive in bursts; a short timer collapses them into one sweep
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				timer.Reset(30 * time.Second)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		case <-timer.C:
			sweep(db, *dir, *grace, *dry)
		}
	}
}

func sweep(db *gorm.DB, dir string, grace time.Duration, dry bool) {
	referenced := map[string]bool{}
	var products []models.Product
	if err := db.Find(&products).Error; err != nil {
		log.Printf("product query failed, skipping sweep: %v", err)
		return
	}
	for _, p := range products {
		if p.Image != "" {
			referenced[filepath.FromSlash(p.Image)] = true
		}
		if p.Thumb != "" {
			referenced[filepath.FromSlash(p.Thumb)] = true
		}
	}

	cutoff := time.Now().Add(-grace)
	removed := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if referenced[path] || info.ModTime().After(cutoff) {
			return nil
		}
		if dry {
			log.Printf("orphan: %s", path)
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.Printf("remove %s: %v", path, err)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		log.Printf("sweep failed: %v", err)
		return
	}
	log.Printf("sweep done, removed %d orphan file(s)", removed)
}
