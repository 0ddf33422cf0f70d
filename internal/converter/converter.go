// =============================================================================
// APT Notes Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It turns the rows of the
// allowed sheets of one workbook into one Markdown note per row.
//
// CONVERSION PIPELINE:
//   1. Open the workbook (a missing or unreadable workbook aborts the run)
//   2. For each allowed sheet present in the workbook:
//      a. Ensure the sheet's output directory exists
//      b. Read the header row and the data rows
//      c. For each data row:
//         - Validate the key and derive the file name
//         - Build and render the document
//         - Apply rewrite Pass A, then Pass B
//         - Write <sheet>/<name>.md
//   3. Return the per-sheet counts
//
// ERROR HANDLING:
//   Only opening the workbook is fatal. A missing sheet, a bad row or a
//   failed write is logged and the run moves on to the next one.
//
// CONCURRENCY:
//   None. Sheets and rows are processed one at a time, in order.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/apt-notes/internal/config"
	"github.com/ginjaninja78/apt-notes/internal/mdwriter"
	"github.com/ginjaninja78/apt-notes/internal/types"
	"github.com/ginjaninja78/apt-notes/internal/validation"
	"github.com/ginjaninja78/apt-notes/internal/xlsxparser"
	"github.com/ginjaninja78/apt-notes/pkg/utils"
	"go.uber.org/zap"
)

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// RowConverter converts workbook rows into notes.
type RowConverter struct {
	cfg         *config.Config
	logger      *zap.Logger
	transformer *Transformer
	validator   *validation.Validator
	files       *utils.FileManager
	writer      *mdwriter.Writer
	dryRun      bool
	runID       string
	now         func() time.Time
}

// Option configures a RowConverter.
type Option func(*RowConverter)

// WithDryRun makes the converter build every note without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(c *RowConverter) {
		c.dryRun = dryRun
	}
}

// WithRunID sets the identifier attached to log entries and the result.
// By default a random one is generated.
func WithRunID(id string) Option {
	return func(c *RowConverter) {
		c.runID = id
	}
}

// WithClock replaces the clock used for the result timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *RowConverter) {
		c.now = now
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a RowConverter.
//
// PARAMETERS:
//   - cfg: The converter configuration. It is not modified.
//   - logger: Destination for progress, warnings and errors. nil disables
//     logging.
//   - opts: Optional settings.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *RowConverter {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &RowConverter{
		cfg:         cfg,
		transformer: NewTransformer(cfg.CategoryLabels, cfg.ToolsetMarker),
		validator:   validation.NewValidator(cfg.PlaceholderKey),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.runID == "" {
		c.runID = utils.NewRunID()
	}

	c.logger = logger.With(zap.String("run_id", c.runID))
	c.files = utils.NewFileManager(cfg.OutputDir, c.dryRun)
	c.writer = mdwriter.NewWriter(cfg.OutputDir, c.dryRun)

	return c
}

// RunID returns the identifier of this converter's run.
func (c *RowConverter) RunID() string {
	return c.runID
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Convert converts every allowed sheet of the workbook at workbookPath.
//
// PARAMETERS:
//   - workbookPath: Path to the .xlsx workbook.
//   - allowedSheetNames: Sheets to convert, in order. Names not present in
//     the workbook are logged and skipped.
//
// RETURNS:
//   - The run result. It is returned even when err is non-nil.
//   - An error wrapping xlsxparser.ErrNotFound or xlsxparser.ErrOpen if the
//     workbook cannot be opened. No other failure is returned.
func (c *RowConverter) Convert(workbookPath string, allowedSheetNames []string) (*types.RunResult, error) {
	result := &types.RunResult{
		RunID:     c.runID,
		Workbook:  workbookPath,
		DryRun:    c.dryRun,
		StartTime: c.now(),
	}
	defer func() {
		result.EndTime = c.now()
	}()

	c.logger.Info("Starting conversion", zap.String("workbook", workbookPath), zap.Bool("dry_run", c.dryRun))

	// =========================================================================
	// STEP 1: OPEN WORKBOOK
	// =========================================================================

	wb, err := xlsxparser.Open(workbookPath)
	if err != nil {
		if errors.Is(err, xlsxparser.ErrNotFound) {
			c.logger.Error("File not found", zap.Error(err))
		} else {
			c.logger.Error("Failed to load workbook", zap.Error(err))
		}
		return result, err
	}
	defer wb.Close()

	c.logger.Info("Workbook loaded successfully", zap.Int("sheets", len(wb.SheetNames())))

	// =========================================================================
	// STEP 2: PROCESS SHEETS
	// =========================================================================

	layout := xlsxparser.Layout{
		HeaderRow:    c.cfg.HeaderRow,
		DataStartRow: c.cfg.DataStartRow,
	}

	for _, name := range allowedSheetNames {
		if !wb.HasSheet(name) {
			c.logger.Warn(fmt.Sprintf("Sheet %s not found in the workbook", name))
			result.MissingSheets = append(result.MissingSheets, name)
			continue
		}
		result.Sheets = append(result.Sheets, c.convertSheet(wb, name, layout))
	}

	written, skipped, failed := result.Totals()
	c.logger.Info("Conversion completed",
		zap.Int("written", written),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return result, nil
}

// convertSheet converts one sheet. Sheet-level failures are recorded in the
// returned result instead of being returned.
func (c *RowConverter) convertSheet(wb *xlsxparser.Workbook, name string, layout xlsxparser.Layout) types.SheetResult {
	res := types.SheetResult{Sheet: name}
	log := c.logger.With(zap.String("sheet", name))

	log.Info("Processing sheet")

	dir, err := c.files.EnsureSheetDir(name)
	if err != nil {
		log.Error("Failed to create sheet directory", zap.Error(err))
		res.Error = err.Error()
		return res
	}
	log.Debug("Output directory ready", zap.String("dir", dir))

	sheet, err := wb.ReadSheet(name, layout)
	if err != nil {
		log.Error("Failed to read sheet", zap.Error(err))
		res.Error = err.Error()
		return res
	}

	for _, row := range sheet.Rows {
		path, err := c.convertRow(sheet, row)
		switch {
		case err == nil:
			res.Written++
			res.Files = append(res.Files, path)
		case errors.Is(err, validation.ErrMissingKey), errors.Is(err, validation.ErrEmptyName):
			log.Warn(fmt.Sprintf("Skipped row %d in sheet %s due to %v", row.Number, name, err))
			res.Skipped++
		default:
			log.Error("Failed to write note", zap.Int("row", row.Number), zap.Error(err))
			res.Failed++
		}
	}

	return res
}

// convertRow builds, rewrites and writes the note for one row.
//
// RETURNS:
//   - The note path.
//   - validation.ErrMissingKey or validation.ErrEmptyName if the row is
//     skipped, or a *mdwriter.WriteError if the note cannot be written.
func (c *RowConverter) convertRow(sheet *types.Sheet, row types.Row) (string, error) {
	stem, err := c.validator.FileStem(row.Key())
	if err != nil {
		return "", err
	}

	doc := mdwriter.BuildDocument(sheet.Name, sheet.Headers, row)
	content, err := mdwriter.Render(doc)
	if err != nil {
		return "", err
	}
	content = c.transformer.Apply(content)

	path, err := c.writer.Write(sheet.Name, stem, content)
	if err != nil {
		return path, err
	}

	if c.dryRun {
		c.logger.Info("Would create file", zap.String("path", path), zap.Int("bytes", len(content)))
	} else {
		c.logger.Info("Created file", zap.String("path", path))
	}
	return path, nil
}
