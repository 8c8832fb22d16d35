package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"

	"poextract/internal/domain"
	"poextract/internal/service"
	"poextract/internal/web"
	"poextract/internal/xlsxexport"
)

// multipartOverhead is allowed on top of three maximum-size files.
const multipartOverhead = 1 << 20

// ExtractionHandler serves the upload form and the extraction endpoints.
type ExtractionHandler struct {
	extractionService service.ExtractionService
	maxUploadBytes    int64
}

// NewExtractionHandler creates a new ExtractionHandler. maxUploadBytes is the
// per-file limit; 0 disables the request body cap.
func NewExtractionHandler(extractionService service.ExtractionService, maxUploadBytes int64) *ExtractionHandler {
	return &ExtractionHandler{extractionService: extractionService, maxUploadBytes: maxUploadBytes}
}

type formPage struct {
	Error string
}

type resultPage struct {
	Result      *service.ProcessResult
	DownloadURL template.URL
}

// Form handles GET /
func (h *ExtractionHandler) Form(c *gin.Context) {
	c.HTML(http.StatusOK, web.IndexTemplate, formPage{})
}

// Process handles POST /process, the form submission. Failures re-render the
// form with the error text.
func (h *ExtractionHandler) Process(c *gin.Context) {
	result, err := h.run(c)
	if err != nil {
		status, _, msg := MapDomainError(err)
		logError(c, status, err)
		if status >= http.StatusInternalServerError || status == http.StatusUnprocessableEntity {
			msg = err.Error()
		}
		c.HTML(status, web.IndexTemplate, formPage{Error: msg})
		return
	}

	c.HTML(http.StatusOK, web.ResultTemplate, resultPage{
		Result:      result,
		DownloadURL: dataURI(result.Workbook),
	})
}

// Extract handles POST /api/v1/extractions
// @Summary Extract and merge PO, GRN and MRN
// @Description Extracts the three PDFs with the configured model and returns the merged rows
// @Tags extractions
// @Accept multipart/form-data
// @Produce json
// @Param po_file formData file true "Purchase order PDF"
// @Param grn_file formData file true "Goods receipt note PDF"
// @Param mrn_file formData file true "Material rejection note PDF"
// @Success 200 {object} APIResponse{data=service.ProcessResult} "Merged rows"
// @Failure 400 {object} APIResponse "Missing upload or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 422 {object} APIResponse "Unreadable PDF"
// @Failure 429 {object} APIResponse "Model provider rate limited"
// @Failure 502 {object} APIResponse "Inference failed or malformed model response"
// @Router /extractions [post]
func (h *ExtractionHandler) Extract(c *gin.Context) {
	result, err := h.run(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Download handles POST /api/v1/extractions/xlsx
// @Summary Extract and download the workbook
// @Description Runs the same extraction as /extractions and returns the merged rows as an xlsx attachment
// @Tags extractions
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param po_file formData file true "Purchase order PDF"
// @Param grn_file formData file true "Goods receipt note PDF"
// @Param mrn_file formData file true "Material rejection note PDF"
// @Success 200 {file} file "Workbook"
// @Failure 400 {object} APIResponse "Missing upload or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 422 {object} APIResponse "Unreadable PDF"
// @Failure 429 {object} APIResponse "Model provider rate limited"
// @Failure 502 {object} APIResponse "Inference failed or malformed model response"
// @Router /extractions/xlsx [post]
func (h *ExtractionHandler) Download(c *gin.Context) {
	result, err := h.run(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Data(http.StatusOK, xlsxexport.ContentType, result.Workbook)
}

func (h *ExtractionHandler) run(c *gin.Context) (*service.ProcessResult, error) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 3*h.maxUploadBytes+multipartOverhead)
	}

	input, closeAll, err := collectUploads(c)
	defer closeAll()
	if err != nil {
		return nil, err
	}
	return h.extractionService.Process(c.Request.Context(), input)
}

// collectUploads reads po_file, grn_file and mrn_file. An absent field leaves
// its slot empty; the service reports missing uploads.
func collectUploads(c *gin.Context) (service.ProcessInput, func(), error) {
	input := service.ProcessInput{Uploads: make(map[domain.DocumentType]*service.Upload, 3)}
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, docType := range domain.AllDocumentTypes() {
		file, header, err := c.Request.FormFile(docType.FormField())
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
				continue
			case errors.As(err, &tooLarge):
				return input, closeAll, domain.ErrFileTooLarge
			default:
				return input, closeAll, eris.Wrapf(err, "reading %s", docType.FormField())
			}
		}
		files = append(files, file)
		input.Uploads[docType] = &service.Upload{
			FileName: header.Filename,
			Size:     header.Size,
			Content:  file,
		}
	}
	return input, closeAll, nil
}

func dataURI(workbook []byte) template.URL {
	return template.URL("data:" + xlsxexport.ContentType + ";base64," + base64.StdEncoding.EncodeToString(workbook))
}
