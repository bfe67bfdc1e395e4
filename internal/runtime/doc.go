// Package runtime manages containers backed by containerd.
//
// A [Runtime] connects to a containerd daemon and provides image import
// and container creation. OCI archives are imported, tagged with a
// deterministic content hash, unpacked for the target platform, and used
// to create containers with overlayfs snapshots.
//
// Each [Container] wraps a running containerd task. Commands can be
// executed inside the container, files can be copied in and out as tar
// streams, individual binaries can be read for architecture inspection,
// and directory trees can be streamed for inventory. The final filesystem
// state can be committed and exported as a new OCI archive stamped with
// the container's target platform. When the container is no longer needed
// it should be destroyed to release its snapshot and task resources.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "remint")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.StartContainer(ctx, "base.tar", "assemble-1", "linux/arm64")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	data, err := ctr.ReadFile(ctx, "/usr/local/bin/server")
//	if err != nil {
//	    return err
//	}
//
//	path, err := ctr.Export(ctx, "output")
//	if err != nil {
//	    return err
//	}
package runtime
