/*
Package filesystem wraps os.Stat and os.Open with retry logic for NFS stale
file handle errors (ESTALE).

It is used when serving catalogued image bytes over HTTP, where a media
root mounted over NFS can briefly return ESTALE after server-side changes.
The discovery pipeline does not use it: a failed directory listing there is
fatal to the run and is never retried.

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
	    return err
	}
	defer f.Close()

Only ESTALE triggers a retry; every other error is returned immediately.
Backoff doubles from InitialBackoff up to MaxBackoff (50ms, 100ms, 200ms by
default). Retry metrics are reported through the Observer installed with
SetObserver, labelled with the volume name resolved by a VolumeResolver.
*/
package filesystem
