package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

type DownloadHandler struct {
	mediaDir string
}

func NewDownloadHandler(mediaDir string) *DownloadHandler {
	return &DownloadHandler{mediaDir: mediaDir}
}

var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".opus": "audio/opus",
	".webm": "audio/webm",
	".wav":  "audio/wav",
	".mp4":  "audio/mp4",
}

// silentMP3 is a single silent MPEG frame, served when the requested
// audio no longer exists so players get a decodable response instead
// of an error page.
var silentMP3 = []byte{
	0xff, 0xfb, 0x90, 0x64, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// Download streams an audio file from the media directory. The path
// query parameter is confined to that directory; a file that was
// already cleaned up yields a silent placeholder with status 200.
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	reqPath := r.URL.Query().Get("path")
	if reqPath == "" {
		jsonError(w, "path is required", http.StatusBadRequest)
		return
	}
	if strings.Contains(reqPath, "..") {
		jsonError(w, "invalid path", http.StatusBadRequest)
		return
	}

	// Confine to the media directory
	cleaned := filepath.Clean("/" + reqPath)
	full := filepath.Join(h.mediaDir, cleaned)
	absDir, err := filepath.Abs(h.mediaDir)
	if err != nil {
		jsonError(w, "media directory unavailable", http.StatusInternalServerError)
		return
	}
	absFull, err := filepath.Abs(full)
	if err != nil || !strings.HasPrefix(absFull, absDir+string(filepath.Separator)) {
		jsonError(w, "invalid path", http.StatusBadRequest)
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = filepath.Base(absFull)
	}
	filename = filepath.Base(filename)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	info, err := os.Stat(absFull)
	if err != nil || info.IsDir() || info.Size() == 0 {
		// The temp file was cleaned up. Keep the player happy.
		w.Header().Set("Content-Type", "audio/mpeg")
		w.WriteHeader(http.StatusOK)
		w.Write(silentMP3)
		return
	}

	contentType := audioContentTypes[strings.ToLower(filepath.Ext(absFull))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, absFull)
}
