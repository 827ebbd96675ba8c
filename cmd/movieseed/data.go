package main

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"movielobby/movie"
)

const noGenresListed = "(no genres listed)"

func sampleMovies() []movie.Movie {
	return []movie.Movie{
		{Title: "Cat vs Dog", Genre: "Horror", Rating: 5},
		{Title: "Space Adventure", Genre: "Sci-Fi", Rating: 4, StreamingLink: "https://example.com/space-adventure"},
		{Title: "Comedy Night", Genre: "Comedy", Rating: 3, StreamingLink: "https://example.com/comedy-night"},
		{Title: "Romantic Escape", Genre: "Romance", Rating: 4},
		{Title: "Action Blast", Genre: "Action", Rating: 4.5, StreamingLink: "https://example.com/action-blast"},
		{Title: "Mystery of the Lake", Genre: "Mystery", Rating: 4},
	}
}

func readJSONFile(path string) ([]movie.Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeMovies(f)
}

func decodeMovies(r io.Reader) ([]movie.Movie, error) {
	var movies []movie.Movie
	if err := json.NewDecoder(r).Decode(&movies); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	for i := range movies {
		movies[i].ID = ""
		movies[i].Title = strings.TrimSpace(movies[i].Title)
	}
	return movies, nil
}

func downloadAndExtract(zipURL string) (string, func(), error) {
	if zipURL == "" {
		return "", func() {}, errors.New("dataset url is empty")
	}

	tmpDir, err := os.MkdirTemp("", "movielens-")
	if err != nil {
		return "", func() {}, err
	}

	cleanup := func() {
		_ = os.RemoveAll(tmpDir)
	}

	zipPath := filepath.Join(tmpDir, "dataset.zip")
	if err := downloadFile(zipURL, zipPath); err != nil {
		cleanup()
		return "", func() {}, err
	}

	csvPath, err := extractMoviesCSV(zipPath, tmpDir)
	if err != nil {
		cleanup()
		return "", func() {}, err
	}

	return csvPath, cleanup, nil
}

func downloadFile(url, dest string) error {
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(url) // nolint: noctx
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

func extractMoviesCSV(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	for _, file := range r.File {
		if filepath.Base(file.Name) != "movies.csv" {
			continue
		}
		return copyZipFile(file, filepath.Join(destDir, "movies.csv"))
	}

	return "", errors.New("movies.csv not found in zip")
}

func copyZipFile(file *zip.File, destPath string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return "", err
	}
	return destPath, out.Close()
}

func readMovieLensCSV(path string, limit int) ([]movie.Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseMovieLens(f, limit)
}

// parseMovieLens maps each row to a movie titled after the row, filed under
// its first genre and unrated.
func parseMovieLens(r io.Reader, limit int) ([]movie.Movie, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	idxTitle, idxGenres, err := parseMovieCSVHeader(reader)
	if err != nil {
		return nil, err
	}

	var movies []movie.Movie
	for limit <= 0 || len(movies) < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return movies, err
		}
		if idxTitle >= len(record) || idxGenres >= len(record) {
			continue
		}

		movies = append(movies, movie.Movie{
			Title: strings.TrimSpace(record[idxTitle]),
			Genre: firstGenre(record[idxGenres]),
		})
	}
	return movies, nil
}

func parseMovieCSVHeader(reader *csv.Reader) (int, int, error) {
	header, err := reader.Read()
	if err != nil {
		return 0, 0, err
	}

	idxTitle, idxGenres := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "title":
			idxTitle = i
		case "genres":
			idxGenres = i
		}
	}
	if idxTitle == -1 || idxGenres == -1 {
		return 0, 0, errors.New("missing required columns in csv header")
	}

	return idxTitle, idxGenres, nil
}

func firstGenre(genres string) string {
	first := strings.TrimSpace(strings.SplitN(genres, "|", 2)[0])
	if first == noGenresListed {
		return ""
	}
	return first
}
