package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"routeeob/internal/model"
)

// upload 当前上传的文件
type upload struct {
	ID         string
	FileName   string
	Size       int64
	Table      *model.Table
	UploadedAt time.Time
}

// session 单槽位：同一时间只保留一份上传
type session struct {
	mu      sync.RWMutex
	current *upload
}

func newSession() *session {
	return &session{}
}

func (s *session) put(fileName string, size int64, t *model.Table, at time.Time) *upload {
	u := &upload{
		ID:         uuid.New().String(),
		FileName:   fileName,
		Size:       size,
		Table:      t,
		UploadedAt: at,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = u
	return u
}

// get 返回当前上传；Table 为深拷贝，调用方可随意处理
func (s *session) get() (*upload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, false
	}
	cp := *s.current
	cp.Table = s.current.Table.Clone()
	return &cp, true
}

func (s *session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
