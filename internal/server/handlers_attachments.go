package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
)

// multipartOverhead leaves room for part headers and boundaries around the file.
const multipartOverhead = 1 << 20

func (s *Server) handleCreateTaskAttachment(w http.ResponseWriter, r *http.Request) {
	taskID, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	s.withLimiter(w, r, s.uploadLimiter, "upload", func() {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
		if err := r.ParseMultipartForm(s.multipartMaxMemory); err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, classifyMultipartError(err))
			return
		}
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				s.log().Warn("remove multipart temp files", "error", err)
			}
		}()

		file, header, err := r.FormFile("file")
		if err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("file is required"), ErrCodeMissingRequired))
			return
		}
		defer file.Close()

		attachment, err := s.attachmentService.Add(r.Context(), taskID, header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, attachment)
	})
}

func (s *Server) handleGetAttachmentContent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	content, err := s.attachmentService.Open(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer content.Reader.Close()

	w.Header().Set("Content-Type", content.MediaType)
	w.Header().Set("Content-Length", strconv.FormatInt(content.SizeBytes, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": content.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, content.Reader); err != nil {
		s.log().Warn("stream attachment content", "attachment_id", id, "error", err)
	}
}

func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	if err := s.attachmentService.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse())
}

func classifyMultipartError(err error) error {
	if err == nil {
		return nil
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return badRequestCode(fmt.Errorf("request body too large"), ErrCodeRequestTooLarge)
	}
	return badRequestCode(err, ErrCodeInvalidArgument)
}
