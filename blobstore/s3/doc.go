// Package s3 implements blobstore.Store on Amazon S3.
//
// Uploads go through the AWS upload manager, so blobs larger than the
// multipart threshold are split into parallel part uploads transparently.
package s3
