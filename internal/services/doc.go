// Package services holds cross-cutting helpers shared by the external
// service clients: the sentinel error taxonomy used for failure
// classification and context annotations for request correlation.
package services
