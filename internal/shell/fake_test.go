package shell

import (
	"context"
	"errors"

	"apishell/internal/apiclient"
)

// fakeClient records calls and exposes both read and write members.
type fakeClient struct {
	calls []string
	// waiting is closed when WaitForThing starts, if set.
	waiting chan struct{}
}

func (f *fakeClient) GetBaseURL() string { return "http://fake.test" }

func (f *fakeClient) GetThing(ctx context.Context, id int) (apiclient.Object, error) {
	f.calls = append(f.calls, "GetThing")
	return apiclient.Object{"id": id}, nil
}

func (f *fakeClient) FindThings(ctx context.Context, params apiclient.Params) (apiclient.Object, error) {
	f.calls = append(f.calls, "FindThings")
	return apiclient.Object{"params": params}, nil
}

func (f *fakeClient) GetNamed(ctx context.Context, index, name string) (apiclient.Object, error) {
	return apiclient.Object{"index": index, "name": name}, nil
}

func (f *fakeClient) GetTags(ctx context.Context, tags []string) ([]string, error) {
	return tags, nil
}

func (f *fakeClient) UpdateThing(ctx context.Context, id int, fields apiclient.Object) (apiclient.Object, error) {
	f.calls = append(f.calls, "UpdateThing")
	return apiclient.Object{"id": id, "fields": fields}, nil
}

func (f *fakeClient) DeleteThing(ctx context.Context, id int) error {
	f.calls = append(f.calls, "DeleteThing")
	return nil
}

func (f *fakeClient) GetBroken(ctx context.Context) (apiclient.Object, error) {
	return nil, errors.New("backend unavailable")
}

func newFakeNamespace(t interface{ Fatalf(string, ...any) }, readOnly bool) (*Namespace, *fakeClient) {
	fake := &fakeClient{}
	ns := NewNamespace()
	if err := ns.Bind("things", fake, readOnly); err != nil {
		t.Fatalf("bind: %v", err)
	}
	return ns, fake
}

// WaitForThing blocks until ctx is cancelled, like a slow backend.
func (f *fakeClient) WaitForThing(ctx context.Context) (apiclient.Object, error) {
	f.calls = append(f.calls, "WaitForThing")
	if f.waiting != nil {
		close(f.waiting)
	}
	<-ctx.Done()
	return nil, ctx.Err()
}
