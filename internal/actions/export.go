package actions

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"stridebeat/internal/logging"
	"stridebeat/internal/playlist"
	"stridebeat/internal/utils"
)

// exportTracks writes tracks to destFile as CSV, adding a .csv extension
// when the path has none.
func exportTracks(destFile string, tracks []playlist.Track) (string, error) {
	if filepath.Ext(destFile) == "" {
		destFile += ".csv"
	}
	if !strings.EqualFold(filepath.Ext(destFile), ".csv") {
		return "", fmt.Errorf("export file %s must have a .csv extension", destFile)
	}

	headers := utils.StructToCsvHeader(reflect.TypeOf(playlist.Track{}))
	if err := utils.WriteToCsvFile(destFile, headers, tracks); err != nil {
		return "", fmt.Errorf("failed to export tracks: %w", err)
	}
	logging.Info().Str("file", destFile).Int("tracks", len(tracks)).Msg("exported matches")
	return destFile, nil
}
