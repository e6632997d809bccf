package store

import "sync"

// Notifier 数据变更广播，通知无负载，订阅方收到后自行重新拉取
type Notifier struct {
	mu   sync.Mutex
	subs []chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe 返回一个容量为1的通知通道
func (n *Notifier) Subscribe() <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan struct{}, 1)
	n.subs = append(n.subs, ch)
	return ch
}

// Publish 非阻塞广播，订阅方未消费时不重复堆积
func (n *Notifier) Publish() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
