package service

import "sync"

// feedHub はユーザーごとの購読者に変更通知をファンアウトする。
// 通知は「変わった」という合図だけで、スナップショット本体は購読側が
// 取得し直す。合図が詰まっている間の追加通知は捨ててよい。
type feedHub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func newFeedHub() *feedHub {
	return &feedHub{subs: make(map[string]map[chan struct{}]struct{})}
}

func (h *feedHub) subscribe(userID string) chan struct{} {
	trigger := make(chan struct{}, 1)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan struct{}]struct{})
	}
	h.subs[userID][trigger] = struct{}{}
	return trigger
}

func (h *feedHub) unsubscribe(userID string, trigger chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[userID], trigger)
	if len(h.subs[userID]) == 0 {
		delete(h.subs, userID)
	}
}

func (h *feedHub) notify(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for trigger := range h.subs[userID] {
		select {
		case trigger <- struct{}{}:
		default: // 更新の合図が既に立っている
		}
	}
}
