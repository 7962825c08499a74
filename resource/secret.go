package resource

// Redacted is the placeholder stored in place of secret values when a
// resource is persisted. Secret values never round-trip through storage;
// they are re-resolved from configuration or ambient credentials when
// needed again.
const Redacted = "[redacted]"
