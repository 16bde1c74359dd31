package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"project-hub/internal/service"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
)

// MaxUploadSize 專案文件大小上限 20 MiB
const MaxUploadSize = 20 << 20

// allowedUploadTypes 只接受 PDF 與 DOCX，以內容判斷而非副檔名
var allowedUploadTypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// docx 是 zip，word/ 可能排在 docProps/、customXml/ 之後，
// 預設 3 KiB 的偵測範圍不夠，改為整個檔案
func init() {
	mimetype.SetLimit(MaxUploadSize)
}

func uploadError(field, msg string) error {
	return &service.ValidationError{Fields: map[string]string{field: msg}}
}

// ReadUpload 讀取 multipart 檔案欄位並檢查大小與格式。
// 欄位不存在時回傳 (nil, nil)，由呼叫端決定是否必填。
// 回傳的 Upload 持有已開啟的檔案，呼叫端負責 Close。
func ReadUpload(c echo.Context, field string) (*service.Upload, io.Closer, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, uploadError(field, fmt.Sprintf("The %s failed to upload.", field))
	}
	return openUpload(fh, field)
}

func openUpload(fh *multipart.FileHeader, field string) (*service.Upload, io.Closer, error) {
	if fh.Size > MaxUploadSize {
		return nil, nil, uploadError(field, fmt.Sprintf("The %s may not be greater than 20480 kilobytes.", field))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, uploadError(field, fmt.Sprintf("The %s failed to upload.", field))
	}

	mt, err := mimetype.DetectReader(f)
	if err != nil || !mimetype.EqualsAny(mt.String(), allowedUploadTypes...) {
		f.Close()
		return nil, nil, uploadError(field, fmt.Sprintf("The %s must be a file of type: pdf, docx.", field))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, nil, uploadError(field, fmt.Sprintf("The %s failed to upload.", field))
	}
	// 儲存時的副檔名以偵測結果為準，不採用用戶端檔名
	return &service.Upload{Filename: fh.Filename, Ext: mt.Extension(), Content: f}, f, nil
}
