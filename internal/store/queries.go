package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Product queries.
const (
	queryUpsertProduct = `
		INSERT INTO products (
			id, sku, name, needs_import, import_task_id, import_status,
			created_at, updated_at
		) VALUES (
			@id, @sku, @name, @needs_import, @import_task_id, @import_status,
			now(), now()
		)
		ON CONFLICT (id) DO UPDATE SET
			sku = EXCLUDED.sku,
			name = EXCLUDED.name,
			needs_import = EXCLUDED.needs_import,
			updated_at = now()
		RETURNING needs_import, import_task_id, import_status, created_at, updated_at`

	queryGetProduct = `
		SELECT id, sku, name, needs_import,
			COALESCE(import_task_id, ''), COALESCE(import_status, ''),
			created_at, updated_at
		FROM products
		WHERE id = $1`

	queryListProductsNeedingImport = `
		SELECT id, sku, name, needs_import,
			COALESCE(import_task_id, ''), COALESCE(import_status, ''),
			created_at, updated_at
		FROM products
		WHERE needs_import = TRUE
		ORDER BY updated_at ASC
		LIMIT $1`

	queryListProductsAwaitingResult = `
		SELECT id, sku, name, needs_import,
			COALESCE(import_task_id, ''), COALESCE(import_status, ''),
			created_at, updated_at
		FROM products
		WHERE import_status = 'waiting' AND import_task_id IS NOT NULL
		ORDER BY updated_at ASC`

	queryMarkImportSubmitted = `
		UPDATE products SET
			needs_import = FALSE,
			import_task_id = $2,
			import_status = 'waiting',
			updated_at = now()
		WHERE id = $1`

	queryMarkImportSucceeded = `
		UPDATE products SET
			import_status = 'success',
			updated_at = now()
		WHERE id = $1`

	queryMarkImportFailed = `
		UPDATE products SET
			import_status = 'error',
			needs_import = $2,
			updated_at = now()
		WHERE id = $1`

	queryFlagNeedsImport = `
		UPDATE products SET
			needs_import = TRUE,
			import_task_id = NULL,
			import_status = NULL,
			updated_at = now()
		WHERE id = $1`

	queryFlagAllNeedImport = `
		UPDATE products SET
			needs_import = TRUE,
			import_task_id = NULL,
			import_status = NULL,
			updated_at = now()`
)

// Order queries.
const (
	queryUpsertOrder = `
		INSERT INTO orders (id, status, created_at, updated_at)
		VALUES (@id, @status, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = now()
		RETURNING created_at, updated_at`

	queryUpsertOrderItem = `
		INSERT INTO order_items (
			id, order_id, product_id, design_id,
			print_image_data_uri, fetched, created_at, updated_at
		) VALUES (
			@id, @order_id, @product_id, @design_id,
			@print_image_data_uri, @fetched, now(), now()
		)
		ON CONFLICT (id) DO UPDATE SET
			order_id = EXCLUDED.order_id,
			product_id = EXCLUDED.product_id,
			design_id = EXCLUDED.design_id,
			updated_at = now()
		RETURNING print_image_data_uri, fetched, created_at, updated_at`

	queryListOrdersByStatus = `
		SELECT id, status, created_at, updated_at
		FROM orders
		WHERE status = $1
		ORDER BY created_at ASC`

	queryListOrderItems = `
		SELECT id, order_id, product_id, COALESCE(design_id, ''),
			COALESCE(print_image_data_uri, ''), fetched,
			created_at, updated_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC`

	querySetOrderItemPrintImage = `
		UPDATE order_items SET
			print_image_data_uri = $2,
			fetched = TRUE,
			updated_at = now()
		WHERE id = $1`

	querySetOrderStatus = `
		UPDATE orders SET
			status = $2,
			updated_at = now()
		WHERE id = $1`
)
