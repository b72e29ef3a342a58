package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avelorn/orvoice/internal/utils"
)

// MediaHandler serves the VTK models and DICOM series backing the 3D and
// imaging viewers. Files live under a flat data directory; DICOM files are
// grouped into series by 8-digit id runs in their names.
type MediaHandler struct {
	dataDir string
}

func NewMediaHandler(dataDir string) *MediaHandler {
	return &MediaHandler{dataDir: dataDir}
}

var (
	vtkExtensions = []string{".vtk", ".vtp", ".vtu"}
	dicomExts     = []string{".dicom", ".dcm"}
	digitRun      = regexp.MustCompile(`\d+`)
	eightDigits   = regexp.MustCompile(`\d{8}`)
)

func hasAnySuffix(name string, suffixes []string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasDigit(s string) bool { return digitRun.MatchString(s) }

func (h *MediaHandler) listDir(sub string) []string {
	entries, err := os.ReadDir(filepath.Join(h.dataDir, sub))
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}

func (h *MediaHandler) ListVTK(c *gin.Context) {
	files := []string{}
	for _, name := range h.listDir("vtk") {
		if hasAnySuffix(name, vtkExtensions) {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *MediaHandler) VTKFile(c *gin.Context) {
	const op = "MediaHandler.VTKFile"

	filename := filepath.Base(c.Param("filename"))
	if !hasAnySuffix(filename, vtkExtensions) {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid VTK file type", nil))
		return
	}
	path := filepath.Join(h.dataDir, "vtk", filename)
	if _, err := os.Stat(path); err != nil {
		writeError(c, utils.E(utils.CodeNotFound, op, "VTK file not found", err))
		return
	}
	c.Header("Content-Disposition", "inline; filename="+filename)
	c.Header("Content-Type", "application/octet-stream")
	c.File(path)
}

// ListDICOMSeries groups the DICOM directory into series ids.
func (h *MediaHandler) ListDICOMSeries(c *gin.Context) {
	files := h.listDir("dicom")

	seriesSet := map[string]struct{}{}
	for _, name := range files {
		if !hasAnySuffix(name, dicomExts) && !isDigits(name) && !hasDigit(name) {
			continue
		}
		switch {
		case eightDigits.MatchString(name):
			seriesSet[eightDigits.FindString(name)] = struct{}{}
		case isDigits(name):
			if len(name) >= 8 {
				seriesSet[name[:8]] = struct{}{}
			} else {
				seriesSet["general"] = struct{}{}
			}
		default:
			if digits := digitRun.FindString(name); digits != "" {
				if len(digits) >= 8 {
					seriesSet[digits[:8]] = struct{}{}
				} else {
					seriesSet["general"] = struct{}{}
				}
			}
		}
	}

	series := make([]string, 0, len(seriesSet))
	for s := range seriesSet {
		series = append(series, s)
	}
	sort.Strings(series)

	if len(series) == 0 && len(files) > 0 {
		series = []string{"general"}
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

// DICOMSeries lists the files belonging to one series, sorted numerically.
func (h *MediaHandler) DICOMSeries(c *gin.Context) {
	seriesID := c.Param("series_id")

	files := []string{}
	for _, name := range h.listDir("dicom") {
		var include bool
		if seriesID == "general" {
			include = hasAnySuffix(name, dicomExts) || isDigits(name) || hasDigit(name)
		} else {
			include = strings.Contains(name, seriesID) ||
				(isDigits(name) && strings.HasPrefix(name, seriesID)) ||
				hasAnySuffix(name, dicomExts)
		}
		if include {
			files = append(files, name)
		}
	}

	sortNumeric(files)
	c.JSON(http.StatusOK, gin.H{"files": files, "series_id": seriesID})
}

func (h *MediaHandler) DICOMFile(c *gin.Context) {
	const op = "MediaHandler.DICOMFile"

	// DICOM files often carry bare numeric names; no extension check.
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(h.dataDir, "dicom", filename)
	if _, err := os.Stat(path); err != nil {
		writeError(c, utils.E(utils.CodeNotFound, op, "DICOM file not found", err))
		return
	}
	c.Header("Content-Disposition", "inline; filename="+filename)
	c.Header("Content-Type", "application/dicom")
	c.Header("Cache-Control", "no-cache")
	c.File(path)
}

// sortNumeric orders by the concatenated digit runs in each name, falling
// back to lexical order when a name carries no usable number.
func sortNumeric(files []string) {
	key := func(name string) (int64, bool) {
		digits := strings.Join(digitRun.FindAllString(name, -1), "")
		if digits == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	sort.SliceStable(files, func(i, j int) bool {
		ni, iok := key(files[i])
		nj, jok := key(files[j])
		if iok && jok && ni != nj {
			return ni < nj
		}
		return files[i] < files[j]
	})
}
