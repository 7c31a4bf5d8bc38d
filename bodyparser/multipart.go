// Copyright 2026 The NextRush Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bodyparser

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"

	"github.com/0xTanzim/nextrush/apperror"
	"github.com/0xTanzim/nextrush/router"
)

// parseMultipart extracts the boundary from contentType, splits the
// body into parts, and classifies each part as a field or a file based
// on its Content-Disposition header, enforcing per-file and aggregate
// size limits.
func parseMultipart(data []byte, contentType string, maxFileSize, maxTotalSize int64) (*router.MultipartData, bool, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false, apperror.BadRequest("invalid multipart content-type: " + err.Error())
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, false, apperror.BadRequest("multipart content-type is missing a boundary")
	}

	reader := multipart.NewReader(bytes.NewReader(data), boundary)

	result := &router.MultipartData{
		Fields: make(map[string][]string),
		Files:  make(map[string][]*router.MultipartFile),
	}
	hasFiles := false
	var total int64

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, apperror.BadRequest("malformed multipart body: " + err.Error())
		}

		name := part.FormName()
		filename := part.FileName()

		if filename == "" {
			value, err := io.ReadAll(io.LimitReader(part, maxTotalSize+1))
			part.Close()
			if err != nil {
				return nil, false, apperror.BadRequest("failed to read multipart field: " + err.Error())
			}
			total += int64(len(value))
			if total > maxTotalSize {
				return nil, false, apperror.PayloadTooLarge("multipart body exceeds the aggregate size limit")
			}
			result.Fields[name] = append(result.Fields[name], string(value))
			continue
		}

		hasFiles = true
		limited := io.LimitReader(part, maxFileSize+1)
		content, err := io.ReadAll(limited)
		part.Close()
		if err != nil {
			return nil, false, apperror.BadRequest("failed to read multipart file: " + err.Error())
		}
		if int64(len(content)) > maxFileSize {
			return nil, false, apperror.PayloadTooLarge("uploaded file exceeds the per-file size limit")
		}
		total += int64(len(content))
		if total > maxTotalSize {
			return nil, false, apperror.PayloadTooLarge("multipart body exceeds the aggregate size limit")
		}

		result.Files[name] = append(result.Files[name], &router.MultipartFile{
			Filename:    filename,
			ContentType: part.Header.Get("Content-Type"),
			Size:        int64(len(content)),
			Bytes:       content,
		})
	}

	return result, hasFiles, nil
}
